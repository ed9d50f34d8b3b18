// mmdtool is a CLI utility for inspecting MMD model dumps and exercising
// the procedural animation controllers without a renderer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mmd/internal/config"
	"github.com/Faultbox/midgard-mmd/internal/engine/camera"
	"github.com/Faultbox/midgard-mmd/internal/engine/input"
	"github.com/Faultbox/midgard-mmd/internal/engine/interaction"
	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
	"github.com/Faultbox/midgard-mmd/internal/logger"
	"github.com/Faultbox/midgard-mmd/pkg/math"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	h := newHost(cfg)
	defer h.close()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		err = cmdInfo(h, rest)
	case "bones":
		err = cmdBones(h, rest)
	case "pose":
		err = cmdPose(h, rest)
	case "gaze":
		err = cmdGaze(h, rest)
	case "dump":
		err = cmdDump(rest)
	case "gradient":
		err = cmdGradient(rest)
	case "preview":
		err = cmdPreview(h, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mmdtool - MMD model inspection utility

Usage:
  mmdtool [global options] <command> [options]

Global options:
  --config <file>   Config file
  --debug           Debug logging
  --pose <name>     Resting pose (standing, sitting, none)
  --no-gaze         Disable head and eye tracking
  --no-sway         Disable idle arm sway
  --textures <dir>  Extra texture search directory
  --workers <n>     Concurrent texture loads

Commands:
  info <model>                   Show model, material and texture summary
  bones <model>                  Print the bone tree
  pose <model> [pose]            Apply a pose and print moved bones
  gaze <model> [options]         Simulate pointer tracking and arm sway
  dump <model>                   Re-encode a model dump as YAML
  gradient <out.webp>            Write the default toon gradient
  preview <texture> <out.webp>   Decode a texture and write it as WebP

Examples:
  mmdtool info miku.pmx.yaml
  mmdtool --pose sitting bones miku.pmx.yaml
  mmdtool gaze -x 400 -y -200 -ticks 60 miku.pmx.yaml`)
}

func cmdInfo(h *host, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mmdtool info <model>")
	}
	asset, err := h.load(context.Background(), args[0])
	if err != nil {
		return err
	}
	defer asset.Release()

	s := model.Summarize(asset)
	fmt.Printf("Model:     %s\n", asset.Name)
	fmt.Printf("Vertices:  %d\n", s.Vertices)
	fmt.Printf("Triangles: %d\n", s.Triangles)
	fmt.Printf("Bones:     %d\n", s.Bones)
	fmt.Printf("Materials: %d (double-sided %d, edged %d, face %d, transparent %d)\n",
		s.Materials, s.DoubleSided, s.Edged, s.Faces, s.Transparent)
	fmt.Printf("Outline:   %v\n", asset.Outline != nil)
	fmt.Printf("Textures:  %d failed\n", asset.Textures.Failed())

	cam := camera.NewOrbitCamera()
	b := asset.Geometry.Bounds
	cam.FitToBounds(math.Vec3From(b.Min), math.Vec3From(b.Max))
	eye := cam.Position()
	fmt.Printf("Camera:    center=(%.2f, %.2f, %.2f) eye=(%.2f, %.2f, %.2f)\n",
		cam.Center.X, cam.Center.Y, cam.Center.Z, eye.X, eye.Y, eye.Z)
	fmt.Println()

	for i, m := range asset.Materials {
		r := asset.Geometry.Ranges[i]
		fmt.Printf("  %-3d %-20s %-6s tris=%-6d edge=%-5v sphere=%-10s map=%s toon=%s\n",
			i, m.Name, m.Side, r.Count/3, m.Edge, m.SphereBlend(), texName(m.Map), texName(m.GradientMap))
	}
	return nil
}

func texName(t *texture.Texture) string {
	if t == nil {
		return "-"
	}
	return t.Path
}

func cmdBones(h *host, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mmdtool bones <model>")
	}
	asset, err := h.load(context.Background(), args[0])
	if err != nil {
		return err
	}
	defer asset.Release()

	if _, err := h.attach(asset, nil); err != nil {
		return err
	}
	printBone(asset.Skeleton.Root, 0)
	return nil
}

func printBone(b *model.Bone, depth int) {
	w := b.WorldPosition()
	fmt.Printf("%s%s  offset=(%.3f, %.3f, %.3f) world=(%.3f, %.3f, %.3f)\n",
		strings.Repeat("  ", depth), b.Name,
		b.Offset.X, b.Offset.Y, b.Offset.Z, w.X, w.Y, w.Z)
	for _, c := range b.Children {
		printBone(c, depth+1)
	}
}

func cmdPose(h *host, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mmdtool pose <model> [%s]", strings.Join(interaction.PoseNames(), "|"))
	}
	p, err := posePick(h.cfg.Pose.Default, args[1:])
	if err != nil {
		return err
	}

	asset, err := h.load(context.Background(), args[0])
	if err != nil {
		return err
	}
	defer asset.Release()

	s := interaction.NewSession(sessionOptions(h.cfg))
	s.Attach(asset.Skeleton, nil)
	defer s.Dispose()

	n, err := s.ApplyPose(p)
	if err != nil {
		return err
	}
	fmt.Printf("Pose %s set %d bones\n", p.Name, n)
	for _, b := range p.Targets(asset.Skeleton) {
		pitch, yaw, roll := b.Rotation.EulerYXZ()
		w := b.WorldPosition()
		fmt.Printf("  %-12s rot(yxz)=(%.3f, %.3f, %.3f) world=(%.3f, %.3f, %.3f)\n",
			b.Name, pitch, yaw, roll, w.X, w.Y, w.Z)
	}
	return nil
}

func cmdGaze(h *host, args []string) error {
	fs := flag.NewFlagSet("gaze", flag.ExitOnError)
	x := fs.Float64("x", 0, "Pointer x in window pixels")
	y := fs.Float64("y", 0, "Pointer y in window pixels")
	width := fs.Int("width", 1280, "Window width")
	height := fs.Int("height", 720, "Window height")
	ticks := fs.Int("ticks", 30, "Update ticks to simulate")
	fps := fs.Int("fps", 60, "Ticks per second")
	fs.Parse(args)

	if fs.NArg() < 1 || *fps < 1 {
		return fmt.Errorf("usage: mmdtool gaze [options] <model>")
	}

	asset, err := h.load(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	defer asset.Release()

	tracker := input.NewTracker(*width, *height)
	s, err := h.attach(asset, tracker)
	if err != nil {
		return err
	}
	defer s.Dispose()

	tracker.Handle(input.Event{Type: input.EventMouseMove, X: float32(*x), Y: float32(*y)})
	step := time.Second / time.Duration(*fps)
	for i := 1; i <= *ticks; i++ {
		if err := s.Tick(time.Duration(i) * step); err != nil {
			return err
		}
	}

	st := tracker.State()
	fmt.Printf("Pointer offset (%.1f, %.1f) after %d ticks, %d bones animated\n",
		st.Pointer.X, st.Pointer.Y, *ticks, s.CachedBones())
	for _, b := range asset.Skeleton.Bones {
		if !interactionBone(b) {
			continue
		}
		pitch, yaw, roll := b.Rotation.EulerYXZ()
		fmt.Printf("  %-12s pitch=%+.4f yaw=%+.4f roll=%+.4f\n", b.Name, pitch, yaw, roll)
	}
	return nil
}

func interactionBone(b *model.Bone) bool {
	for _, set := range [][]string{interaction.HeadBones, interaction.EyeBones, interaction.ArmBones, interaction.ElbowBones} {
		for _, name := range set {
			if b.Key() == name {
				return true
			}
		}
	}
	return false
}

func cmdDump(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mmdtool dump <model>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := pmx.YAMLParser{}.Parse(data, pmx.ParseOptions{Format: pmx.FormatFromPath(args[0]), KeepSourceAxes: true})
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	out, err := pmx.EncodeYAML(m)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func cmdGradient(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mmdtool gradient <out.webp>")
	}
	return writeWebP(args[0], texture.DefaultToonGradient())
}

func cmdPreview(h *host, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mmdtool preview <texture> <out.webp>")
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Textures.Timeout)
	defer cancel()

	tex, err := h.loader.Load(ctx, texture.Request{
		Slot:   texture.SlotDiffuse,
		Base:   ".",
		Ref:    args[0],
		Format: texture.FormatFor(args[0]),
	})
	if err != nil {
		return err
	}
	return writeWebP(args[1], tex)
}

func writeWebP(path string, tex *texture.Texture) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := texture.EncodeWebP(f, tex.Image); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	b := tex.Image.Bounds()
	fmt.Printf("Wrote %s (%dx%d)\n", path, b.Dx(), b.Dy())
	return nil
}
