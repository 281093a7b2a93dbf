package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubedrop/app"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/ecs/debugui"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/scene"
)

// spawnScenePanel adds the window with the simulation controls.
func spawnScenePanel(a *app.App) {
	storage := a.Storage()
	settings := ecs.NewSingleton[physics.Settings](storage)
	request := ecs.NewSingleton[scene.ResetRequest](storage)

	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(640, 10), imgui.CondOnce, imgui.NewVec2(0.5, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(300, 210), imgui.CondOnce)
			if !imgui.BeginV("Scene", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}
			defer imgui.End()

			if imgui.Button("Reset cube") {
				request.Get().Pending = true
			}
			imgui.SameLine()
			imgui.Checkbox("Paused", &settings.Get().Paused)

			gravity := [3]float32(settings.Get().Gravity)
			if imgui.DragFloat3V("Gravity", &gravity, 0.05, -50, 50, "%.2f", 0) {
				settings.Get().Gravity = gravity
			}

			imgui.Separator()
			pose, ok := scene.ReadPose(storage)
			if !ok {
				imgui.Text("No parent cube")
				return
			}
			imgui.Text("Position " + scene.FormatVec(pose.Translation))
			imgui.Text("Velocity " + scene.FormatVec(pose.Linear))
			imgui.Text("Spin     " + scene.FormatVec(pose.Angular))
			state := "awake"
			if pose.Sleeping {
				state = "asleep"
			}
			imgui.Text(fmt.Sprintf("Body is %s", state))
		},
	})
}
