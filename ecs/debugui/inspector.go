package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubedrop/ecs"
)

// Widgets draws one editable value each and reports whether the user changed
// it. The inspector writes changes straight back into the component.
type Widgets interface {
	Bool(label string, v *bool) bool
	Int(label string, v *int32) bool
	Float(label string, v *float32) bool
	String(label string, v *string) bool
	Vec3(label string, v *[3]float32) bool
	Color(label string, v *[4]float32) bool
	Text(line string)
	Tree(label string) bool
	TreePop()
}

// Inspector shows the components of the outliner's selection.
type Inspector struct {
	widgets Widgets
}

func (ci *Inspector) Render(storage *ecs.Storage, outliner *Outliner) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 360), imgui.CondOnce)
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	id, ok := outliner.Selected()
	if !ok {
		imgui.Text("No entity selected")
		return
	}
	if ci.widgets == nil {
		ci.widgets = imguiWidgets{}
	}
	imgui.Text("Entity " + id.String())
	imgui.Separator()
	InspectEntity(ci.widgets, storage, id)
}

// InspectEntity draws every component of id, sorted by type name.
func InspectEntity(w Widgets, storage *ecs.Storage, id ecs.EntityId) {
	archetype := storage.GetArchetypeById(id.ArchetypeId())
	if archetype == nil || !archetype.Contains(id.Index()) {
		w.Text("Entity " + id.String() + " no longer exists")
		return
	}

	types := append([]reflect.Type(nil), archetype.Types()...)
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	for _, compType := range types {
		component := storage.GetComponent(id, compType)
		if component == nil {
			continue
		}
		name := shortTypeName(compType.String())
		val := reflect.ValueOf(component).Elem()
		if len(fieldCache.Fields(compType)) == 0 && kindOf(compType) != FieldStruct {
			inspectValue(w, name, val)
			continue
		}
		if w.Tree(name) {
			inspectFields(w, val)
			w.TreePop()
		}
	}
}

func inspectFields(w Widgets, val reflect.Value) {
	fields := fieldCache.Fields(val.Type())
	if len(fields) == 0 {
		w.Text("(no fields)")
		return
	}
	for _, field := range fields {
		inspectValue(w, field.Name, val.Field(field.Index))
	}
}

// inspectValue draws val, which must be addressable, and assigns the edited
// value back through reflection.
func inspectValue(w Widgets, label string, val reflect.Value) {
	switch kindOf(val.Type()) {
	case FieldBool:
		v := val.Bool()
		if w.Bool(label, &v) {
			val.SetBool(v)
		}
	case FieldInt:
		v := int32(val.Int())
		if w.Int(label, &v) {
			val.SetInt(int64(v))
		}
	case FieldUint:
		v := int32(val.Uint())
		if w.Int(label, &v) && v >= 0 {
			val.SetUint(uint64(v))
		}
	case FieldFloat:
		v := float32(val.Float())
		if w.Float(label, &v) {
			val.SetFloat(float64(v))
		}
	case FieldString:
		v := val.String()
		if w.String(label, &v) {
			val.SetString(v)
		}
	case FieldVec3:
		v := val.Convert(vec3Type).Interface().([3]float32)
		if w.Vec3(label, &v) {
			val.Set(reflect.ValueOf(v).Convert(val.Type()))
		}
	case FieldColor:
		var v [4]float32
		for i := range v {
			v[i] = float32(val.Field(i).Uint()) / 255
		}
		if w.Color(label, &v) {
			for i := range v {
				val.Field(i).SetUint(uint64(clampByte(v[i])))
			}
		}
	case FieldStruct:
		if w.Tree(label) {
			inspectFields(w, val)
			w.TreePop()
		}
	case FieldPointer:
		if val.IsNil() {
			w.Text(label + ": nil")
		} else {
			w.Text(fmt.Sprintf("%s: %v", label, val.Elem().Interface()))
		}
	default:
		switch val.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			w.Text(fmt.Sprintf("%s: [%d items]", label, val.Len()))
		default:
			w.Text(fmt.Sprintf("%s: %v", label, val.Interface()))
		}
	}
}

func clampByte(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

type imguiWidgets struct{}

func (imguiWidgets) Bool(label string, v *bool) bool     { return imgui.Checkbox(label, v) }
func (imguiWidgets) Int(label string, v *int32) bool     { return imgui.InputInt(label, v) }
func (imguiWidgets) Float(label string, v *float32) bool { return imgui.DragFloatV(label, v, 0.01, 0, 0, "%.3f", 0) }
func (imguiWidgets) Vec3(label string, v *[3]float32) bool {
	return imgui.DragFloat3V(label, v, 0.01, 0, 0, "%.3f", 0)
}
func (imguiWidgets) Color(label string, v *[4]float32) bool { return imgui.ColorEdit4(label, v) }
func (imguiWidgets) Text(line string)                       { imgui.Text(line) }
func (imguiWidgets) Tree(label string) bool                 { return imgui.TreeNodeStr(label) }
func (imguiWidgets) TreePop()                               { imgui.TreePop() }

func (imguiWidgets) String(label string, v *string) bool {
	return imgui.InputTextWithHint(label, "", v, imgui.InputTextFlagsNone, nil)
}
