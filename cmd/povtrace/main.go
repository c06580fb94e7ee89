// Command povtrace renders a scene through the shading and global-
// illumination core in pkg/scene, writing the result to a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/focalblur"
	"github.com/df07/povcore/pkg/radiosity"
	"github.com/df07/povcore/pkg/raytracer"
	"github.com/df07/povcore/pkg/sampler"
	"github.com/df07/povcore/pkg/scene"
	"github.com/df07/povcore/pkg/shading"
)

// Config holds the command-line configuration for one render.
type Config struct {
	SceneType  string
	Width      int
	Height     int
	Mode       string // "non-adaptive", "adaptive", "mosaic", "blur"
	Aperture   float64
	FocalDist  float64
	Help       bool
	CPUProfile string
}

func main() {
	config := parseFlags()
	if config.Help {
		showHelp()
		return
	}

	if config.CPUProfile != "" {
		stop, err := startCPUProfile(config.CPUProfile)
		if err != nil {
			fmt.Printf("Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer stop()
	}

	fmt.Println("Starting render...")
	startTime := time.Now()

	pipeline, cam := buildScene(config.SceneType)
	img := renderFrame(pipeline, cam, config)

	outputDir := "output"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	if err := saveImageToFile(img, filename); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Render saved as %s\n", filename)
}

func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Scene to render")
	flag.IntVar(&config.Width, "width", 400, "Image width in pixels")
	flag.IntVar(&config.Height, "height", 300, "Image height in pixels")
	flag.StringVar(&config.Mode, "mode", "non-adaptive", "Pixel sampling mode: non-adaptive, adaptive, mosaic, blur")
	flag.Float64Var(&config.Aperture, "aperture", 0, "Lens aperture diameter; 0 disables focal blur in blur mode")
	flag.Float64Var(&config.FocalDist, "focal-dist", 10, "Focal distance for blur mode")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.StringVar(&config.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.Parse()
	return config
}

func showHelp() {
	fmt.Println("povtrace")
	fmt.Println("Usage: povtrace [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	fmt.Println("  default - a lit sphere over a flat gray floor")
	fmt.Println()
	fmt.Println("Sampling modes:")
	fmt.Println("  non-adaptive - one ray per pixel, supersampling on sharp edges")
	fmt.Println("  adaptive     - corner-subdivision antialiasing")
	fmt.Println("  mosaic       - coarse-to-fine preview passes")
	fmt.Println("  blur         - depth-of-field via aperture sampling")
}

// buildScene constructs the default demo scene and its wired pipeline.
func buildScene(sceneType string) (*scene.Pipeline, *sampler.Camera) {
	switch sceneType {
	case "default":
	default:
		fmt.Printf("Unknown scene %q, using default\n", sceneType)
	}

	s := defaultScene()
	pipeline := scene.Build(s, shading.DefaultConfig(), radiosity.DefaultConfig(), raytracer.DefaultConfig())

	cam := sampler.NewCamera(
		core.NewVec3(0, 2, -8),
		core.NewVec3(0, -0.1, 1),
		core.NewVec3(1.33, 0, 0),
		core.NewVec3(0, 1, 0),
		60, sampler.Perspective,
	)

	s.Validate(cam.Location)
	return pipeline, cam
}

// renderFrame drives config.Mode's sampling strategy to completion and
// returns the resulting image, clamped and gamma-corrected per channel.
func renderFrame(p *scene.Pipeline, cam *sampler.Camera, config Config) *image.RGBA {
	width, height := config.Width, config.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	plot := func(x, y int, color core.Vec3) {
		setPixel(img, x, y, color)
	}

	switch config.Mode {
	case "adaptive":
		p.AttachSampler(cam, adaptiveConfig(), width, height)
		sampler.NewAdaptiveSampler(p.Sampler).Render(plot)

	case "mosaic":
		p.AttachSampler(cam, sampler.DefaultConfig(), width, height)
		p.Sampler.RenderMosaic(plot, sampler.MosaicSmooth, []int{16, 8, 4, 2, 1}, nil)

	case "blur":
		renderBlur(p, cam, config, plot)

	default:
		p.AttachSampler(cam, sampler.DefaultConfig(), width, height)
		p.Sampler.RenderNonAdaptive(plot, 0, 0)
	}

	return img
}

func adaptiveConfig() sampler.Config {
	cfg := sampler.DefaultConfig()
	cfg.Adaptive = true
	return cfg
}

// renderBlur walks every pixel and runs the focal-blur confidence-test
// loop directly, since focalblur.Sampler.Run is a per-pixel primitive
// with no frame-level driver of its own.
func renderBlur(p *scene.Pipeline, cam *sampler.Camera, config Config, plot sampler.PlotFunc) {
	cfg := focalblur.Config{
		Aperture:    config.Aperture,
		BlurSamples: 37,
		Confidence:  0.9,
		Variance:    1.0 / 256,
		Rng:         rand.New(rand.NewSource(1)),
	}
	p.AttachFocalBlur(cam, config.Width, config.Height, config.FocalDist, cfg)

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			color, _, _ := p.Blur.Run(float64(x), float64(y))
			plot(x, y, color)
		}
	}
}

// setPixel clamps and gamma-corrects a linear color before writing it as
// an 8-bit-per-channel pixel.
func setPixel(img *image.RGBA, x, y int, color core.Vec3) {
	c := color.Clamp(0, 1).GammaCorrect(2.2)
	offset := img.PixOffset(x, y)
	img.Pix[offset] = uint8(math.Round(c.X * 255))
	img.Pix[offset+1] = uint8(math.Round(c.Y * 255))
	img.Pix[offset+2] = uint8(math.Round(c.Z * 255))
	img.Pix[offset+3] = 255
}

func saveImageToFile(img *image.RGBA, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
