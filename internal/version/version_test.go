package version

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionIsSemantic(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+$`), Info())
}

func TestFullInfo(t *testing.T) {
	info := FullInfo()
	assert.True(t, strings.HasPrefix(info, "paramhints "+Version))
	assert.Contains(t, info, "commit: "+GitCommit)
	assert.Contains(t, info, "built: "+BuildDate)
}

func TestBuildIDIsStable(t *testing.T) {
	id := BuildID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, BuildID())
}
