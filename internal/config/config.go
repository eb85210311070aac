// Package config loads YAML scene descriptions for the physbridge CLI:
// world gravity, sub-stepping policy, shape generation settings and the
// objects to spawn.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt            = 1.0 / 60.0
	DefaultDuration      = 5.0
	DefaultMaxSubSteps   = 4
	DefaultFixedTimeStep = 1.0 / 60.0
	DefaultGravityY      = -9.81
)

type Scene struct {
	Gravity  [3]float64  `yaml:"gravity"`
	Step     StepConfig  `yaml:"step"`
	Shape    ShapeConfig `yaml:"shape"`
	Dt       float64     `yaml:"dt"`
	Duration float64     `yaml:"duration"`
	Objects  []Object    `yaml:"objects"`

	// Track selects which object's height the run command plots, as an
	// index into Objects.
	Track int `yaml:"track"`
}

type StepConfig struct {
	MaxSubSteps   int     `yaml:"max_sub_steps"`
	FixedTimeStep float64 `yaml:"fixed_time_step"`
}

type ShapeConfig struct {
	// Variant is one of concave, concave_dynamic, hull.
	Variant string     `yaml:"variant"`
	Origin  [3]float64 `yaml:"origin"`
	Scale   [3]float64 `yaml:"scale"`
}

type Object struct {
	Name       string     `yaml:"name"`
	Descriptor string     `yaml:"descriptor"`
	Mass       float64    `yaml:"mass"`
	Position   [3]float64 `yaml:"position"`
	Velocity   [3]float64 `yaml:"velocity"`
	Kinematic  bool       `yaml:"kinematic"`
}

func DefaultScene() *Scene {
	return &Scene{
		Gravity: [3]float64{0, DefaultGravityY, 0},
		Step: StepConfig{
			MaxSubSteps:   DefaultMaxSubSteps,
			FixedTimeStep: DefaultFixedTimeStep,
		},
		Shape: ShapeConfig{
			Variant: "concave",
			Scale:   [3]float64{1, 1, 1},
		},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Objects: []Object{
			{Name: "ground", Descriptor: "box/20/0.5/20", Mass: 0, Position: [3]float64{0, -0.5, 0}},
			{Name: "ball", Descriptor: "sphere/0.5", Mass: 1, Position: [3]float64{0, 5, 0}},
		},
		Track: 1,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene := DefaultScene()
	scene.Objects = nil
	scene.Track = 0
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

func Save(path string, scene *Scene) error {
	data, err := yaml.Marshal(scene)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scene) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", s.Dt)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", s.Duration)
	}
	if s.Step.MaxSubSteps < 1 {
		return fmt.Errorf("max_sub_steps must be at least 1, got %d", s.Step.MaxSubSteps)
	}
	if s.Step.FixedTimeStep <= 0 {
		return fmt.Errorf("fixed_time_step must be positive, got %f", s.Step.FixedTimeStep)
	}
	if len(s.Objects) > 0 && (s.Track < 0 || s.Track >= len(s.Objects)) {
		return fmt.Errorf("track index %d out of range", s.Track)
	}
	for i, o := range s.Objects {
		if o.Descriptor == "" {
			return fmt.Errorf("object %d has no descriptor", i)
		}
		if o.Mass < 0 {
			return fmt.Errorf("object %d has negative mass", i)
		}
	}
	return nil
}
