package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

const debugCircleSegments = 24

// View is the camera used by the debug drawers.
type View struct {
	CamX float64
	CamY float64
	Zoom float64
}

func (v View) toScreen(x, y float64) (float32, float32) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return float32((x - v.CamX) * zoom), float32((y - v.CamY) * zoom)
}

func (v View) scale(d float64) float32 {
	if v.Zoom <= 0 {
		return float32(d)
	}
	return float32(d * v.Zoom)
}

var phaseColors = map[component.PortalPhase]color.RGBA{
	component.PortalInactive: colornames.Dimgray,
	component.PortalArming:   colornames.Orange,
	component.PortalActive:   colornames.Mediumseagreen,
	component.PortalCooldown: colornames.Steelblue,
}

var plateColors = map[component.PlateState]color.RGBA{
	component.PlateReleased:  colornames.Tan,
	component.PlatePressed:   colornames.Khaki,
	component.PlateActivated: colornames.Goldenrod,
}

// DrawOverlay draws trigger zones, actors and switches.
func DrawOverlay(w *ecs.World, screen *ebiten.Image, view View) {
	if w == nil || screen == nil {
		return
	}

	for _, e := range w.Query(component.PressurePlateComponent.Kind(), component.TransformComponent.Kind()) {
		plate, _ := ecs.Get(w, e, component.PressurePlateComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)
		rt, _ := ecs.Get(w, e, component.PressurePlateRuntimeComponent)
		drawZone(screen, view, plate.Zone, t, plateColors[rt.State])
		x, y := view.toScreen(t.X+plate.Zone.X, t.Y+plate.Zone.Y)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %.0f/%.0f", plate.Name, rt.Weight, plate.RequiredWeight), int(x), int(y)-16)
	}

	for _, e := range w.Query(component.PortalComponent.Kind(), component.TransformComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PortalComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)
		rt, _ := ecs.Get(w, e, component.PortalRuntimeComponent)
		clr := phaseColors[rt.Phase]
		if rt.Disabled {
			clr = colornames.Darkred
		}
		drawZone(screen, view, p.Zone, t, clr)
		x, y := view.toScreen(t.X+p.Zone.X, t.Y+p.Zone.Y)
		label := fmt.Sprintf("%s [%s] %d", p.Name, rt.Phase, rt.Occupancy)
		if p.Destination == 0 {
			label += " (no destination)"
		}
		ebitenutil.DebugPrintAt(screen, label, int(x), int(y)-16)
	}

	for _, e := range w.Query(component.SwitchComponent.Kind(), component.TransformComponent.Kind()) {
		sw, _ := ecs.Get(w, e, component.SwitchComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)
		clr := colornames.Gray
		if sw.On {
			clr = colornames.Lime
		}
		x, y := view.toScreen(t.X-6, t.Y-6)
		vector.FillRect(screen, x, y, view.scale(12), view.scale(12), clr, false)
	}

	for _, e := range transportablesAll(w) {
		drawActor(w, screen, view, e)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tick %d  t=%.2fs", w.Tick(), w.Time()), 10, 10)
}

func transportablesAll(w *ecs.World) []ecs.Entity {
	out := transportables(w)
	out = append(out, w.Query(component.TeleportingComponent.Kind())...)
	return out
}

func drawZone(screen *ebiten.Image, view View, zone component.AABB, at component.Transform, clr color.RGBA) {
	x, y := view.toScreen(at.X+zone.X, at.Y+zone.Y)
	fill := color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: 56}
	vector.FillRect(screen, x, y, view.scale(zone.W), view.scale(zone.H), fill, false)
	vector.StrokeRect(screen, x, y, view.scale(zone.W), view.scale(zone.H), 1.0, clr, false)
}

func drawActor(w *ecs.World, screen *ebiten.Image, view View, e ecs.Entity) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return
	}
	_, _, width, height, _ := footprint(w, e)
	if width <= 0 || height <= 0 {
		width, height = 8, 8
	}
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 && sy == 0 {
		sx, sy = 1, 1
	}
	width *= math.Abs(sx)
	height *= math.Abs(sy)

	clr := colornames.Deepskyblue
	switch {
	case ecs.Has(w, e, component.VehicleComponent):
		clr = colornames.Sienna
	case ecs.Has(w, e, component.VehiclePartComponent):
		clr = colornames.Peru
	case ecs.Has(w, e, component.AITagComponent):
		clr = colornames.Orchid
	}
	fill := color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: 255}
	if o, ok := ecs.Get(w, e, component.OpacityComponent); ok {
		fill.A = uint8(math.Round(255 * math.Max(0, math.Min(1, o.Alpha))))
	}
	x, y := view.toScreen(t.X-width/2, t.Y-height/2)
	vector.FillRect(screen, x, y, view.scale(width), view.scale(height), fill, false)
}

// DrawPhysicsDebug outlines every shape in the Chipmunk space.
func DrawPhysicsDebug(space *cp.Space, screen *ebiten.Image, view View) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, view: view})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   View
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawPolygon(circlePoints(pos, radius), outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.view.toScreen(pos.X, pos.Y)
	vector.FillRect(d.screen, x-1, y-1, 2, 2, toNRGBA(fill), false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(clr), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func circlePoints(center cp.Vector, radius float64) []cp.Vector {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	return points
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
