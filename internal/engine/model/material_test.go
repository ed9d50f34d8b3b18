package model

import (
	"testing"

	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

func TestBuildMaterial_Flags(t *testing.T) {
	tests := []struct {
		flag pmx.MaterialFlag
		want func(m *Material) bool
	}{
		{0x01, func(m *Material) bool { return m.Side == SideDouble }},
		{0x02, func(m *Material) bool { return m.GroundShadow }},
		{0x04, func(m *Material) bool { return m.CastShadow }},
		{0x08, func(m *Material) bool { return m.ReceiveShadow }},
		{0x10, func(m *Material) bool { return m.Edge }},
		{0x20, func(m *Material) bool { return m.VertexColor }},
		{0x40, func(m *Material) bool { return m.PointDraw }},
		{0x80, func(m *Material) bool { return m.LineDraw }},
	}

	for _, tt := range tests {
		src := pmx.Material{Name: "Body", Diffuse: [4]float32{1, 1, 1, 1}, Flag: tt.flag}
		m, _ := BuildMaterial(0, &src, nil, DefaultMaterialOptions(""))
		if !tt.want(m) {
			t.Errorf("flag %#x not decoded", tt.flag)
		}
		if m.Flag != tt.flag {
			t.Errorf("flag %#x stored as %#x", tt.flag, m.Flag)
		}
	}
}

func TestBuildMaterial_EdgeAndDoubleSided(t *testing.T) {
	model := quadModel()

	body, _ := BuildMaterial(0, &model.Materials[0], model.Textures, DefaultMaterialOptions(""))
	if body.Side != SideDouble || !body.Edge {
		t.Errorf("flag 0x11: side %v, edge %v", body.Side, body.Edge)
	}
	if body.GroundShadow || body.CastShadow || body.ReceiveShadow || body.VertexColor || body.PointDraw || body.LineDraw {
		t.Errorf("flag 0x11 set unrelated bits: %+v", body)
	}

	plain := pmx.Material{Name: "Cloth", Diffuse: [4]float32{1, 1, 1, 1}, Flag: 0x00}
	m, _ := BuildMaterial(1, &plain, nil, DefaultMaterialOptions(""))
	if m.Side != SideFront || m.Edge {
		t.Errorf("flag 0x00: side %v, edge %v", m.Side, m.Edge)
	}
}

func TestBuildMaterial_Appearance(t *testing.T) {
	src := pmx.Material{Name: "Hair", Diffuse: [4]float32{0.2, 0.3, 0.4, 0.5}, Shininess: 8}
	m, reqs := BuildMaterial(2, &src, nil, DefaultMaterialOptions(""))

	if m.Color != [3]float32{0.2, 0.3, 0.4} || m.Opacity != 0.5 {
		t.Errorf("color %v opacity %v", m.Color, m.Opacity)
	}
	if !m.Transparent {
		t.Error("alpha < 1 should be transparent")
	}
	if m.AlphaTest != 0.1 {
		t.Errorf("alpha test = %v", m.AlphaTest)
	}
	if m.GradientMap != texture.DefaultToonGradient() {
		t.Error("expected default toon gradient fallback")
	}
	if m.Map != nil || m.SphereMap != nil || m.Version != 0 {
		t.Error("texture slots should start empty")
	}
	if len(reqs) != 0 {
		t.Errorf("no references should yield no requests, got %d", len(reqs))
	}
}

func TestBuildMaterial_FaceAndSkin(t *testing.T) {
	tests := []struct {
		name     string
		wantFace bool
		wantSkin bool
	}{
		{"Face", true, true},
		{"Face_main", true, true},
		{"FACE", true, true},
		{"EYE_white", true, true},
		{"Mouth", true, true},
		{"顔", true, true},
		{"脸", true, true},
		{"Skin", false, true},
		{"肌", false, true},
		{"皮肤", false, true},
		{"Body", false, false},
		{"髪", false, false},
		{"Surface", false, false},
		{"interface", false, false},
		{"skirt_face", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := pmx.Material{Name: tt.name, Diffuse: [4]float32{1, 1, 1, 1}, Flag: pmx.FlagSelfShadowMap}
			m, _ := BuildMaterial(0, &src, nil, DefaultMaterialOptions(""))
			if m.IsFace != tt.wantFace || m.IsSkin != tt.wantSkin {
				t.Errorf("face=%v skin=%v, want face=%v skin=%v", m.IsFace, m.IsSkin, tt.wantFace, tt.wantSkin)
			}
			if m.Transparent != tt.wantSkin {
				t.Errorf("opaque skin material transparent = %v", m.Transparent)
			}
			if tt.wantFace {
				if m.CastShadow || m.PolygonOffset != -1 {
					t.Errorf("face material: cast %v offset %v", m.CastShadow, m.PolygonOffset)
				}
			} else if !m.CastShadow || m.PolygonOffset != 0 {
				t.Errorf("cast %v offset %v", m.CastShadow, m.PolygonOffset)
			}
		})
	}
}

func TestBuildMaterial_Requests(t *testing.T) {
	model := quadModel()
	opts := DefaultMaterialOptions("/models/quad")
	_, reqs := BuildMaterial(0, &model.Materials[0], model.Textures, opts)

	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	bySlot := make(map[texture.Slot]texture.Request)
	for _, r := range reqs {
		if r.Material != 0 || !r.FlipY || r.Base != "/models/quad" {
			t.Errorf("request %+v", r)
		}
		bySlot[r.Slot] = r
	}

	diffuse := bySlot[texture.SlotDiffuse]
	if diffuse.Ref != "tex/body.png" || diffuse.Format != texture.FormatStandard || diffuse.Color != texture.ColorSRGB {
		t.Errorf("diffuse request %+v", diffuse)
	}
	if diffuse.Sampler.Wrap != texture.WrapRepeat || diffuse.Sampler.Anisotropy != 16 ||
		diffuse.Sampler.MinFilter != texture.FilterLinearMipmapLinear || !diffuse.Sampler.Mipmaps {
		t.Errorf("diffuse sampler %+v", diffuse.Sampler)
	}

	toon := bySlot[texture.SlotToon]
	if toon.Ref != "toon.tga" || toon.Format != texture.FormatTGA {
		t.Errorf("toon request %+v", toon)
	}
	if toon.Sampler.MinFilter != texture.FilterNearest || toon.Sampler.MagFilter != texture.FilterNearest {
		t.Errorf("toon sampler %+v", toon.Sampler)
	}

	if sphere := bySlot[texture.SlotSphere]; sphere.Ref != "env.spa" {
		t.Errorf("sphere request %+v", sphere)
	}
}

func TestBuildMaterial_SharedToon(t *testing.T) {
	src := pmx.Material{
		Name: "Body", Diffuse: [4]float32{1, 1, 1, 1},
		TextureIndex: pmx.NoIndex, SphereIndex: pmx.NoIndex,
		ToonShared: true, ToonIndex: 2,
	}

	opts := DefaultMaterialOptions("/models/quad")
	opts.ToonDir = "/share/toon"
	_, reqs := BuildMaterial(0, &src, []string{"a.png"}, opts)
	if len(reqs) != 1 || reqs[0].Ref != "toon03.bmp" || reqs[0].Base != "/share/toon" {
		t.Fatalf("requests = %+v", reqs)
	}

	_, reqs = BuildMaterial(0, &src, nil, DefaultMaterialOptions("/models/quad"))
	if len(reqs) != 1 || reqs[0].Base != "/models/quad" {
		t.Errorf("shared toon without toon dir = %+v", reqs)
	}

	if SharedToonName(-1) != "" || SharedToonName(9) != "toon10.bmp" {
		t.Error("unexpected shared toon names")
	}
}

func TestMaterial_SphereBlend(t *testing.T) {
	sphere := &texture.Texture{Path: "env.spa"}
	tests := []struct {
		mode pmx.SphereMode
		tex  *texture.Texture
		want pmx.SphereMode
	}{
		{pmx.SphereMultiply, sphere, pmx.SphereMultiply},
		{pmx.SphereAdd, sphere, pmx.SphereAdd},
		{pmx.SphereSubTexture, sphere, pmx.SphereOff},
		{pmx.SphereAdd, nil, pmx.SphereOff},
		{pmx.SphereOff, sphere, pmx.SphereOff},
	}
	for _, tt := range tests {
		m := &Material{SphereMode: tt.mode, SphereMap: tt.tex}
		if got := m.SphereBlend(); got != tt.want {
			t.Errorf("mode %v with texture %v: got %v, want %v", tt.mode, tt.tex != nil, got, tt.want)
		}
	}
}

func TestMaterial_SetTexture(t *testing.T) {
	m := &Material{}
	tex := &texture.Texture{Path: "a.png"}
	m.SetTexture(texture.SlotDiffuse, tex)
	m.SetTexture(texture.SlotSphere, tex)
	m.SetTexture(texture.Slot(9), tex)
	if m.Map != tex || m.SphereMap != tex || m.Version != 2 {
		t.Errorf("material after SetTexture: %+v", m)
	}
}
