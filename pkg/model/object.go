package model

import (
	"reflect"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Object types known to this core
const (
	TypeMeta     = "meta"
	TypeInstance = "instance"
	TypeState    = "state"
	TypeAdapter  = "adapter"
)

const (
	fieldID       = "_id"
	fieldRevision = "_rev"
	fieldType     = "type"
	fieldCommon   = "common"
	fieldNative   = "native"
	fieldFrom     = "from"
	fieldTS       = "ts"
)

// Object is a document of the object store.
//
// Objects are kept schemaless: packages declare arbitrary settings under "common" and "native",
// and every attribute must survive a read-modify-write cycle untouched.
type Object map[string]interface{}

// NewObject builds an object with an ID and a type
func NewObject(id, typ string) Object {
	return Object{
		fieldID:     id,
		fieldType:   typ,
		fieldCommon: map[string]interface{}{},
		fieldNative: map[string]interface{}{},
	}
}

// ParseObject decodes a JSON document
func ParseObject(data []byte) (Object, error) {
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o == nil {
		o = Object{}
	}
	return o, nil
}

// Marshal the object as JSON
func (o Object) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

// ID of the object
func (o Object) ID() string {
	s, _ := o[fieldID].(string)
	return s
}

// SetID of the object
func (o Object) SetID(id string) {
	o[fieldID] = id
}

// Type of the object
func (o Object) Type() string {
	s, _ := o[fieldType].(string)
	return s
}

// Revision last known for this object, as set by the store when reading it
func (o Object) Revision() string {
	s, _ := o[fieldRevision].(string)
	return s
}

// SetRevision records the revision token of the object
func (o Object) SetRevision(rev string) {
	if rev == "" {
		delete(o, fieldRevision)
		return
	}
	o[fieldRevision] = rev
}

// Common settings of the object. The map is created when absent.
func (o Object) Common() map[string]interface{} {
	return o.section(fieldCommon)
}

// Native settings of the object. The map is created when absent.
func (o Object) Native() map[string]interface{} {
	return o.section(fieldNative)
}

// SetCommon replaces the common settings
func (o Object) SetCommon(common map[string]interface{}) {
	o[fieldCommon] = common
}

// SetNative replaces the native settings
func (o Object) SetNative(native map[string]interface{}) {
	o[fieldNative] = native
}

func (o Object) section(name string) map[string]interface{} {
	if m, ok := AsMap(o[name]); ok {
		return m
	}
	m := map[string]interface{}{}
	o[name] = m
	return m
}

// Enabled tells if an instance is enabled
func (o Object) Enabled() bool {
	common, ok := AsMap(o[fieldCommon])
	return ok && isTrue(common["enabled"])
}

// Host an instance is bound to
func (o Object) Host() string {
	common, ok := AsMap(o[fieldCommon])
	if !ok {
		return ""
	}
	s, _ := common["host"].(string)
	return s
}

// Stamp records the origin and time of a write
func (o Object) Stamp(from string, ts time.Time) {
	o[fieldFrom] = from
	o[fieldTS] = ts.UnixNano() / int64(time.Millisecond)
}

// Clone returns a deep copy of the object
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	return Object(CopyMap(o))
}

// Equal compares objects structurally
func (o Object) Equal(other Object) bool {
	return reflect.DeepEqual(map[string]interface{}(o), map[string]interface{}(other))
}

// WithoutRevision returns a shallow copy of the object, stripped from its revision token
func (o Object) WithoutRevision() Object {
	cp := make(Object, len(o))
	for k, v := range o {
		if k == fieldRevision {
			continue
		}
		cp[k] = v
	}
	return cp
}
