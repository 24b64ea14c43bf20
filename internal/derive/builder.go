package derive

import "fmt"

// required fields hold a pointer in the builder so "unset" is observable
func (f fieldInfo) builderType() string {
	switch f.shape {
	case shapePointer, shapeSlice:
		return f.Type
	default:
		return "*" + f.Type
	}
}

func needsErrors(t target) bool {
	for _, f := range t.fields {
		if f.shape == shapePlain {
			return true
		}
	}
	return false
}

func (e *Emitter) emitBuilder(t target) {
	name := t.st.Name
	bname := name + "Builder"

	fmt.Fprintf(&e.buf, "// %s builds %s values.\n", bname, name)
	fmt.Fprintf(&e.buf, "type %s struct {\n", bname)
	for _, f := range t.fields {
		fmt.Fprintf(&e.buf, "\t%s %s\n", f.priv, f.builderType())
	}
	e.buf.WriteString("}\n\n")

	fmt.Fprintf(&e.buf, "// New%s returns a builder with no field set.\n", bname)
	fmt.Fprintf(&e.buf, "func New%s() *%s {\n\treturn &%s{}\n}\n\n", bname, bname, bname)

	for _, f := range t.fields {
		switch f.shape {
		case shapePlain:
			e.setter(bname, f.Name, f.Type, fmt.Sprintf("b.%s = &v", f.priv), "sets "+name+"."+f.Name)
		case shapePointer:
			e.setter(bname, f.Name, f.elem, fmt.Sprintf("b.%s = &v", f.priv), "sets the optional "+name+"."+f.Name)
		case shapeSlice:
			if f.Each != "" {
				e.setter(bname, f.Each, f.elem, fmt.Sprintf("b.%s = append(b.%s, v)", f.priv, f.priv), "appends one element to "+name+"."+f.Name)
			}
			if f.Each != f.Name {
				e.setter(bname, f.Name, f.Type, fmt.Sprintf("b.%s = v", f.priv), "replaces "+name+"."+f.Name)
			}
		}
	}

	fmt.Fprintf(&e.buf, "// Build returns the %s, or an error naming the first required field left unset.\n", name)
	fmt.Fprintf(&e.buf, "func (b *%s) Build() (%s, error) {\n", bname, name)
	for _, f := range t.fields {
		if f.shape == shapePlain {
			fmt.Fprintf(&e.buf, "\tif b.%s == nil {\n\t\treturn %s{}, errors.New(%q)\n\t}\n", f.priv, name, "field "+f.Name+" not set")
		}
	}
	fmt.Fprintf(&e.buf, "\tv := %s{\n", name)
	for _, f := range t.fields {
		if f.shape == shapePlain {
			fmt.Fprintf(&e.buf, "\t\t%s: *b.%s,\n", f.Name, f.priv)
		} else {
			fmt.Fprintf(&e.buf, "\t\t%s: b.%s,\n", f.Name, f.priv)
		}
	}
	e.buf.WriteString("\t}\n")
	for _, f := range t.fields {
		if f.shape == shapeSlice {
			fmt.Fprintf(&e.buf, "\tif v.%s == nil {\n\t\tv.%s = %s{}\n\t}\n", f.Name, f.Name, f.Type)
		}
	}
	e.buf.WriteString("\treturn v, nil\n}\n\n")
}

func (e *Emitter) setter(bname, method, param, body, doc string) {
	fmt.Fprintf(&e.buf, "// %s %s.\n", method, doc)
	fmt.Fprintf(&e.buf, "func (b *%s) %s(v %s) *%s {\n\t%s\n\treturn b\n}\n\n", bname, method, param, bname, body)
}
