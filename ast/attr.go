package ast

import "strings"

// KV is a key-value attribute pair.
type KV struct {
	Key   string
	Value string
}

// Attr holds identifier, classes and key-value attributes of a node.
type Attr struct {
	ID      string
	Classes []string
	KVs     []KV
}

// NewAttr creates an attribute set with identifier id and the given classes.
func NewAttr(id string, classes ...string) Attr {
	return Attr{ID: id, Classes: classes}
}

// HasClass returns true if the attribute set has class c.
func (a Attr) HasClass(c string) bool {
	for _, cl := range a.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// Get returns the value of key, or false if the key is not present.
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// WithKV returns a copy of the attributes with key set to value.
func (a Attr) WithKV(key, value string) Attr {
	kvs := make([]KV, len(a.KVs), len(a.KVs)+1)
	copy(kvs, a.KVs)
	for i, kv := range kvs {
		if kv.Key == key {
			kvs[i].Value = value
			a.KVs = kvs
			return a
		}
	}
	a.KVs = append(kvs, KV{key, value})
	return a
}

// IsZero is true for an attribute set without identifier, classes and keys.
func (a Attr) IsZero() bool {
	return a.ID == "" && len(a.Classes) == 0 && len(a.KVs) == 0
}

func (a Attr) String() string {
	if a.IsZero() {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('{')
	sep := ""
	if a.ID != "" {
		sb.WriteString("#" + a.ID)
		sep = " "
	}
	for _, c := range a.Classes {
		sb.WriteString(sep + "." + c)
		sep = " "
	}
	for _, kv := range a.KVs {
		sb.WriteString(sep + kv.Key + "=" + kv.Value)
		sep = " "
	}
	sb.WriteByte('}')
	return sb.String()
}
