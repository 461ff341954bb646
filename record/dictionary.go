package record

// Dictionary interns the distinct string values of one categorical column.
// Categories are assigned densely in first-seen order starting at 0.
type Dictionary struct {
	ids    map[string]Category
	values []string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{ids: make(map[string]Category)}
}

// Intern returns the category for s, assigning the next free one if s is new.
func (d *Dictionary) Intern(s string) Category {
	if c, ok := d.ids[s]; ok {
		return c
	}
	c := Category(len(d.values))
	d.ids[s] = c
	d.values = append(d.values, s)
	return c
}

// Category returns the category already assigned to s.
func (d *Dictionary) Category(s string) (Category, bool) {
	c, ok := d.ids[s]
	return c, ok
}

// Lookup returns the string value of c.
func (d *Dictionary) Lookup(c Category) (string, bool) {
	if int(c) >= len(d.values) {
		return "", false
	}
	return d.values[c], true
}

// Len returns the number of interned values.
func (d *Dictionary) Len() int {
	return len(d.values)
}
