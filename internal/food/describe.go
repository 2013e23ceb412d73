package food

import "strings"

// Describe renders an item compactly, for example
// "pot[tomato(cut,boil) onion(cut)]" or "dirty plate".
// A nil item renders as "-".
func Describe(it Item) string {
	var b strings.Builder
	describe(&b, it)
	return b.String()
}

func describe(b *strings.Builder, it Item) {
	switch v := it.(type) {
	case nil:
		b.WriteString("-")
	case *Ingredient:
		b.WriteString(v.Type)
		states(b, v.cookStates)
	case *Food:
		b.WriteString("food")
		states(b, v.cookStates)
		components(b, v.components)
	case *Container:
		if v.Dirty {
			b.WriteString("dirty ")
		}
		b.WriteString(v.Kind.String())
		if !v.contents.Empty() {
			states(b, v.contents.cookStates)
			components(b, v.contents.components)
		}
	default:
		b.WriteString("?")
	}
}

func states(b *strings.Builder, s []string) {
	if len(s) == 0 {
		return
	}
	b.WriteByte('(')
	b.WriteString(strings.Join(s, ","))
	b.WriteByte(')')
}

func components(b *strings.Builder, cs []Component) {
	b.WriteByte('[')
	for i, c := range cs {
		if i > 0 {
			b.WriteByte(' ')
		}
		describe(b, c)
	}
	b.WriteByte(']')
}
