package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// Resolver maps level names to entity handles.
type Resolver interface {
	Lookup(name string) (ecs.Entity, bool)
}

const scriptDispatch = `
update(__engine, __state)
`

type scriptRuntime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	err       error
}

// ScriptTriggerSystem runs every ScriptTrigger's update(engine, state) once
// per tick. Scripts drive portals and switches by name.
type ScriptTriggerSystem struct {
	opts     options
	resolver Resolver
	cache    map[ecs.Entity]*scriptRuntime
}

func NewScriptTriggerSystem(resolver Resolver, opts ...Option) *ScriptTriggerSystem {
	return &ScriptTriggerSystem{
		opts:     buildOptions(opts),
		resolver: resolver,
		cache:    make(map[ecs.Entity]*scriptRuntime),
	}
}

func (s *ScriptTriggerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for e := range s.cache {
		if !ecs.Has(w, e, component.ScriptTriggerComponent) {
			delete(s.cache, e)
		}
	}

	engine := s.engine(w)
	for _, e := range w.Query(component.ScriptTriggerComponent.Kind()) {
		trigger, _ := ecs.Get(w, e, component.ScriptTriggerComponent)
		rt := s.runtime(e, trigger)
		if rt.err != nil {
			continue
		}
		if err := rt.run(engine); err != nil {
			s.opts.logger.Warn("script: update failed",
				zap.String("path", trigger.Path),
				zap.Stringer("entity", e),
				zap.Error(err),
			)
		}
	}
}

func (s *ScriptTriggerSystem) runtime(e ecs.Entity, trigger component.ScriptTrigger) *scriptRuntime {
	if rt, ok := s.cache[e]; ok && rt.path == trigger.Path {
		return rt
	}
	rt := &scriptRuntime{path: trigger.Path, stateData: &tengo.Map{Value: map[string]tengo.Object{}}}
	rt.compiled, rt.err = compileScript(trigger.Source)
	if rt.err != nil {
		s.opts.logger.Warn("script: compile failed",
			zap.String("path", trigger.Path),
			zap.Error(rt.err),
		)
	}
	s.cache[e] = rt
	return rt
}

func compileScript(src []byte) (*tengo.Compiled, error) {
	if len(strings.TrimSpace(string(src))) == 0 {
		return nil, fmt.Errorf("script: empty source")
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return compiled, nil
}

func (rt *scriptRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (s *ScriptTriggerSystem) lookup(args []tengo.Object) (ecs.Entity, bool) {
	if s.resolver == nil || len(args) < 1 {
		return 0, false
	}
	name := strings.TrimSpace(objectAsString(args[0]))
	if name == "" {
		return 0, false
	}
	return s.resolver.Lookup(name)
}

func (s *ScriptTriggerSystem) engine(w *ecs.World) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["activate"] = &tengo.UserFunction{Name: "activate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		return boolObject(activateTarget(w, e, 0, s.opts)), nil
	}}

	values["deactivate"] = &tengo.UserFunction{Name: "deactivate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		return boolObject(deactivateTarget(w, e, s.opts)), nil
	}}

	values["external_activate"] = &tengo.UserFunction{Name: "external_activate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		seconds, ok := tengo.ToFloat64(args[1])
		if !ok || seconds <= 0 {
			return tengo.FalseValue, nil
		}
		return boolObject(activateTarget(w, e, seconds, s.opts)), nil
	}}

	values["is_active"] = &tengo.UserFunction{Name: "is_active", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		if sw, ok := ecs.Get(w, e, component.SwitchComponent); ok {
			return boolObject(sw.On), nil
		}
		if ecs.Has(w, e, component.PortalComponent) {
			return boolObject(PortalPhase(w, e) == component.PortalActive), nil
		}
		return tengo.FalseValue, nil
	}}

	values["occupancy"] = &tengo.UserFunction{Name: "occupancy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok {
			return &tengo.Int{Value: 0}, nil
		}
		rt, _ := ecs.Get(w, e, component.PortalRuntimeComponent)
		return &tengo.Int{Value: int64(rt.Occupancy)}, nil
	}}

	values["plate_weight"] = &tengo.UserFunction{Name: "plate_weight", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e, ok := s.lookup(args)
		if !ok {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: PlateWeight(w, e)}, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: w.Time()}, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		w.Events().Push(ecs.Event{Type: EventScriptNotification, Data: name})
		emit(w, s.opts.sink, s.opts.logger, Record{Kind: EventScriptNotification, Detail: name})
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
