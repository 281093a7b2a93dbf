package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/transform"
)

var imguiItemType = reflect.TypeFor[ImguiItem]()

// OutlineRow is one entity in the outliner, listed after its parent.
type OutlineRow struct {
	ID         ecs.EntityId
	Label      string
	Depth      int
	Components []string
}

// BuildOutline lists every entity except overlay items as a tree: roots sorted by label, each
// followed by its children in spawn order. Entities without app.Name are
// labelled by id.
func BuildOutline(storage *ecs.Storage) []OutlineRow {
	components := make(map[ecs.EntityId][]string)
	var roots []OutlineRow
	for _, archetype := range storage.GetArchetypes() {
		if archetype.HasComponent(imguiItemType) {
			continue
		}
		names := make([]string, len(archetype.Types()))
		for i, typ := range archetype.Types() {
			names[i] = shortTypeName(typ.String())
		}
		sort.Strings(names)

		for id := range archetype.Iter() {
			components[id] = names
			if parent := ecs.ReadComponent[transform.Parent](storage, id); parent != nil && parent.Ref.Valid() {
				continue
			}
			roots = append(roots, OutlineRow{ID: id, Label: entityLabel(storage, id)})
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].Label != roots[j].Label {
			return roots[i].Label < roots[j].Label
		}
		return roots[i].ID < roots[j].ID
	})

	rows := make([]OutlineRow, 0, len(components))
	visited := make(map[ecs.EntityId]bool, len(components))
	var walk func(row OutlineRow)
	walk = func(row OutlineRow) {
		if visited[row.ID] {
			return
		}
		visited[row.ID] = true
		row.Components = components[row.ID]
		rows = append(rows, row)

		if children := ecs.ReadComponent[transform.Children](storage, row.ID); children != nil {
			for _, child := range children.Live() {
				walk(OutlineRow{ID: child, Label: entityLabel(storage, child), Depth: row.Depth + 1})
			}
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return rows
}

// FilterOutline keeps rows whose label or component names contain text,
// ignoring case.
func FilterOutline(rows []OutlineRow, text string) []OutlineRow {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return rows
	}

	filtered := make([]OutlineRow, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Label), text) ||
			strings.Contains(strings.ToLower(strings.Join(row.Components, " ")), text) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func entityLabel(storage *ecs.Storage, id ecs.EntityId) string {
	if name := ecs.ReadComponent[app.Name](storage, id); name != nil && name.Value != "" {
		return name.Value
	}
	return "Entity " + id.String()
}

// shortTypeName strips the package path, keeping "physics.Collider".
func shortTypeName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Outliner is the entity tree window. Its selection follows the entity across
// archetype moves.
type Outliner struct {
	selected *ecs.EntityRef
	filter   string
}

// Selected returns the selected entity, or false if none is selected or it was
// deleted.
func (o *Outliner) Selected() (ecs.EntityId, bool) {
	if !o.selected.Valid() {
		return 0, false
	}
	return o.selected.Id, true
}

// Select selects id.
func (o *Outliner) Select(storage *ecs.Storage, id ecs.EntityId) {
	o.selected = storage.CreateEntityRef(id)
}

func (o *Outliner) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(280, 320), imgui.CondOnce)
	if !imgui.BeginV("Outliner", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Filter...", &o.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		o.filter = ""
	}
	imgui.Separator()

	selected, _ := o.Selected()
	rows := FilterOutline(BuildOutline(storage), o.filter)
	for _, row := range rows {
		label := strings.Repeat("  ", row.Depth) + row.Label + "##" + row.ID.String()
		if imgui.SelectableBoolV(label, row.ID == selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
			o.Select(storage, row.ID)
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip(strings.Join(row.Components, "\n"))
		}
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("%d entities", len(rows)))
	imgui.End()
}
