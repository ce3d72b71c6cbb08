package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressAll(t *testing.T) {
	tests := []struct {
		name   string
		args   int
		params []Parameter
		want   bool
	}{
		{"begin end", 2, []Parameter{param("beginIndex", "int"), param("endIndex", "int")}, true},
		{"start end", 2, []Parameter{param("start", "int"), param("end", "int")}, true},
		{"first last", 2, []Parameter{param("firstName", "String"), param("lastName", "String")}, true},
		{"first second", 2, []Parameter{param("first", "int"), param("second", "int")}, true},
		{"from to", 2, []Parameter{param("from", "int"), param("to", "int")}, true},
		{"key value", 2, []Parameter{param("key", "String"), param("value", "String")}, true},
		{"min max", 2, []Parameter{param("min", "int"), param("max", "int")}, true},
		{"case insensitive", 2, []Parameter{param("MINIMUM", "int"), param("MaxValue", "int")}, true},
		{"reversed order", 2, []Parameter{param("end", "int"), param("begin", "int")}, false},
		{"unrelated", 2, []Parameter{param("host", "String"), param("port", "int")}, false},
		{"three arguments", 3, []Parameter{param("begin", "int"), param("end", "int")}, false},
		{"one argument", 1, []Parameter{param("begin", "int"), param("end", "int")}, false},
		{"three parameters", 2, []Parameter{param("begin", "int"), param("end", "int"), param("step", "int")}, false},
		{"unnamed first", 2, []Parameter{{Type: tname("int")}, param("end", "int")}, false},
		{"unnamed second", 2, []Parameter{param("begin", "int"), {Type: tname("int")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuppressAll(tt.args, tt.params))
		})
	}
}

// Substring matching over-suppresses: "endurance" contains "end". This is
// the documented behaviour of the heuristic and is kept as is.
func TestSuppressAll_SubstringImprecision(t *testing.T) {
	params := []Parameter{param("restart", "int"), param("endurance", "int")}
	assert.True(t, SuppressAll(2, params))

	params = []Parameter{param("monkey", "String"), param("revalue", "String")}
	assert.True(t, SuppressAll(2, params), "monKEY / reVALUE match key/value")
}
