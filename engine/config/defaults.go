package config

// Default returns the configuration used when no file is given: a 1280x720 vsync window and
// three spheres resting on a large ground sphere, lit by an emissive sphere above them.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "oxy-rt",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 0.5, 0},
			Fov:      90,
			Near:     1,
			Far:      1000,
		},
		Controls: ControlsConfig{
			MoveSpeed:   5,
			RotateSpeed: 3,
		},
		Raytracing: RaytracingConfig{
			MaxBounces:      4,
			RaysPerPixel:    8,
			DivergeStrength: 1,
			FocusDistance:   1,
		},
		Scene: SceneConfig{
			Name:             "demo",
			SphereCapacity:   64,
			TriangleCapacity: 1024,
			Spheres:          demoSpheres(),
		},
	}
}

func demoSpheres() []SphereConfig {
	return []SphereConfig{
		{
			Center:   [3]float32{0, -1001, 6},
			Radius:   1000,
			Material: MaterialConfig{Color: [3]float32{0.6, 0.6, 0.6}},
		},
		{
			Center:   [3]float32{-2.2, 0, 6},
			Radius:   1,
			Material: MaterialConfig{Color: [3]float32{0.9, 0.2, 0.2}, Smoothness: 0.2},
		},
		{
			Center:   [3]float32{0, 0, 6},
			Radius:   1,
			Material: MaterialConfig{
				Color:          [3]float32{0.2, 0.9, 0.3},
				Smoothness:     0.95,
				Specular:       [3]float32{1, 1, 1},
				SpecularChance: 0.3,
			},
		},
		{
			Center:   [3]float32{2.2, 0, 6},
			Radius:   1,
			Material: MaterialConfig{Color: [3]float32{0.2, 0.3, 0.9}, Smoothness: 0.6},
		},
		{
			Center: [3]float32{0, 8, 10},
			Radius: 3,
			Material: MaterialConfig{
				Emission:         [3]float32{1, 0.95, 0.85},
				EmissionStrength: 4,
			},
		},
	}
}
