package datastructure

// Tags. osm key -> value. one value per key
type Tags map[string]string

func NewTags(kv ...string) Tags {
	tags := make(Tags, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		tags[kv[i]] = kv[i+1]
	}
	return tags
}

// Find. value of key, "" if the key is missing
func (t Tags) Find(key string) string {
	if t == nil {
		return ""
	}
	return t[key]
}

func (t Tags) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t[key]
	return v, ok
}

func (t Tags) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// AnyOf. true if the value of key is one of values
func (t Tags) AnyOf(key string, values ...string) bool {
	v, ok := t.Get(key)
	if !ok {
		return false
	}
	for _, val := range values {
		if v == val {
			return true
		}
	}
	return false
}
