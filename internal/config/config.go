// Package config loads and saves flight scenarios as YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTargetApogee = 300.0
	DefaultPeriod       = 0.05
	DefaultMaxTime      = 120.0
	DefaultKp           = 0.05
	DefaultKi           = 0.005
	DefaultKd           = 0.01
	DefaultStepSize     = 0.05
	DefaultTolerance    = 1e-8
	DefaultInitialStep  = 0.1
	DefaultMaxIter      = 100000
)

type Config struct {
	Predictor string `yaml:"predictor"`
	Law       string `yaml:"law"`

	TargetApogee      float64 `yaml:"target_apogee"`
	Period            float64 `yaml:"period"`
	LagTimeConstant   float64 `yaml:"lag_time_constant"`
	MaxDeploymentRate float64 `yaml:"max_deployment_rate"`
	ActivationTime    float64 `yaml:"activation_time"`
	LockFloor         float64 `yaml:"lock_floor"`
	MaxTime           float64 `yaml:"max_time"`

	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Motor     MotorConfig     `yaml:"motor"`
	PID       PIDConfig       `yaml:"pid"`
	BangBang  BangBangConfig  `yaml:"bang_bang"`
	Numeric   NumericConfig   `yaml:"numeric"`
	Sensor    SensorConfig    `yaml:"sensor"`
}

type VehicleConfig struct {
	DryMass         float64 `yaml:"dry_mass"`
	DragCoefficient float64 `yaml:"drag_coefficient"`
	ReferenceArea   float64 `yaml:"reference_area"`
}

type MotorConfig struct {
	Thrust         float64 `yaml:"thrust"`
	BurnTime       float64 `yaml:"burn_time"`
	PropellantMass float64 `yaml:"propellant_mass"`
}

type PIDConfig struct {
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"`
	FilterTau     float64 `yaml:"filter_tau"`
}

type BangBangConfig struct {
	Deadband float64 `yaml:"deadband"`
}

type NumericConfig struct {
	StepSize      float64 `yaml:"step_size"`
	Tolerance     float64 `yaml:"tolerance"`
	InitialStep   float64 `yaml:"initial_step"`
	MaxIterations int     `yaml:"max_iterations"`
}

type SensorConfig struct {
	AltitudeStd float64 `yaml:"altitude_std"`
	VelocityStd float64 `yaml:"velocity_std"`
	Seed        int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Predictor:         "fixed_step",
		Law:               "pid",
		TargetApogee:      DefaultTargetApogee,
		Period:            DefaultPeriod,
		LagTimeConstant:   0.3,
		MaxDeploymentRate: 2.0,
		ActivationTime:    3.0,
		LockFloor:         0,
		MaxTime:           DefaultMaxTime,
		Vehicle: VehicleConfig{
			DryMass:         13.5,
			DragCoefficient: 0.5,
			ReferenceArea:   0.01,
		},
		Motor: MotorConfig{
			Thrust:         500,
			BurnTime:       3.0,
			PropellantMass: 1.5,
		},
		PID: PIDConfig{
			Kp:            DefaultKp,
			Ki:            DefaultKi,
			Kd:            DefaultKd,
			IntegralLimit: 500,
			FilterTau:     0.2,
		},
		BangBang: BangBangConfig{
			Deadband: 10,
		},
		Numeric: NumericConfig{
			StepSize:      DefaultStepSize,
			Tolerance:     DefaultTolerance,
			InitialStep:   DefaultInitialStep,
			MaxIterations: DefaultMaxIter,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
