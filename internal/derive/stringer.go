package derive

import (
	"fmt"
	"strconv"
	"strings"
)

func (f fieldInfo) verb() string {
	if f.Debug != "" {
		return f.Debug
	}
	return "%v"
}

// emitString writes `Name { Field: value, ... }`, or just `Name` without fields.
func (e *Emitter) emitString(t target) {
	name := t.st.Name
	fmt.Fprintf(&e.buf, "// String renders %s with its field values.\n", name)
	fmt.Fprintf(&e.buf, "func (v %s) String() string {\n", name)
	if len(t.fields) == 0 {
		fmt.Fprintf(&e.buf, "\treturn %q\n}\n\n", name)
		return
	}

	parts := make([]string, 0, len(t.fields))
	args := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		parts = append(parts, f.Name+": "+f.verb())
		args = append(args, "v."+f.Name)
	}
	layout := name + " { " + strings.Join(parts, ", ") + " }"
	fmt.Fprintf(&e.buf, "\treturn fmt.Sprintf(%s, %s)\n}\n\n", strconv.Quote(layout), strings.Join(args, ", "))
}
