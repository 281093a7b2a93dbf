package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field the inspector can show.
type FieldInfo struct {
	Name  string
	Index int
	Kind  FieldKind
}

// FieldKind picks the widget a field is edited with.
type FieldKind int

const (
	FieldReadOnly FieldKind = iota
	FieldBool
	FieldInt
	FieldUint
	FieldFloat
	FieldString
	FieldVec3
	FieldColor
	FieldStruct
	FieldPointer
)

var vec3Type = reflect.TypeFor[[3]float32]()

func kindOf(t reflect.Type) FieldKind {
	switch t.Kind() {
	case reflect.Bool:
		return FieldBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FieldInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FieldUint
	case reflect.Float32, reflect.Float64:
		return FieldFloat
	case reflect.String:
		return FieldString
	case reflect.Array:
		if t.ConvertibleTo(vec3Type) {
			return FieldVec3
		}
	case reflect.Struct:
		if isColor(t) {
			return FieldColor
		}
		return FieldStruct
	case reflect.Pointer:
		return FieldPointer
	}
	return FieldReadOnly
}

// isColor matches color.RGBA and any struct laid out as four uint8 fields.
func isColor(t reflect.Type) bool {
	if t.NumField() != 4 {
		return false
	}
	for i := range 4 {
		if t.Field(i).Type.Kind() != reflect.Uint8 {
			return false
		}
	}
	return true
}

type reflectionCache struct {
	fields sync.Map
}

// Fields returns the exported fields of struct type t.
func (rc *reflectionCache) Fields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if field.Anonymous {
				name = field.Type.Name()
			}
			fields = append(fields, FieldInfo{Name: name, Index: i, Kind: kindOf(field.Type)})
		}
	}

	cached, _ := rc.fields.LoadOrStore(t, fields)
	return cached.([]FieldInfo)
}

var fieldCache reflectionCache
