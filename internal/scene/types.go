package scene

import (
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

// Stats are a character's base attributes.
type Stats struct {
	Strength int
	Agility  float32
}

func (Stats) DescribeFields(b *metadata.Builder[Stats]) {
	metadata.Ranged(b, "strength", func(s *Stats) *int { return &s.Strength }, 0, 100)
	metadata.Ranged(b, "agility", func(s *Stats) *float32 { return &s.Agility }, 0, 10)
}

type Player struct {
	Name  string
	Alive bool
	Stats Stats
}

func (Player) DescribeFields(b *metadata.Builder[Player]) {
	metadata.Field(b, "name", func(p *Player) *string { return &p.Name })
	metadata.Field(b, "alive", func(p *Player) *bool { return &p.Alive })
	metadata.Field(b, "stats", func(p *Player) *Stats { return &p.Stats })
}

// Specular is a normalized RGB reflectance.
type Specular struct {
	R, G, B float32
}

func (Specular) DescribeFields(b *metadata.Builder[Specular]) {
	metadata.Ranged(b, "r", func(s *Specular) *float32 { return &s.R }, 0, 1)
	metadata.Ranged(b, "g", func(s *Specular) *float32 { return &s.G }, 0, 1)
	metadata.Ranged(b, "b", func(s *Specular) *float32 { return &s.B }, 0, 1)
}

// Emissive is an HDR RGB emission, up to 10 per channel.
type Emissive struct {
	R, G, B float32
}

func (Emissive) DescribeFields(b *metadata.Builder[Emissive]) {
	metadata.Ranged(b, "r", func(e *Emissive) *float32 { return &e.R }, 0, 10)
	metadata.Ranged(b, "g", func(e *Emissive) *float32 { return &e.G }, 0, 10)
	metadata.Ranged(b, "b", func(e *Emissive) *float32 { return &e.B }, 0, 10)
}

type Roughness struct {
	Value float32
}

func (Roughness) DescribeFields(b *metadata.Builder[Roughness]) {
	metadata.Ranged(b, "value", func(r *Roughness) *float32 { return &r.Value }, 0, 1)
}

type Metallic struct {
	Value float32
}

func (Metallic) DescribeFields(b *metadata.Builder[Metallic]) {
	metadata.Ranged(b, "value", func(m *Metallic) *float32 { return &m.Value }, 0, 1)
}

type Light struct {
	Color     widget.Vec4
	Intensity float32
}

func (Light) DescribeFields(b *metadata.Builder[Light]) {
	metadata.Field(b, "color", func(l *Light) *widget.Vec4 { return &l.Color })
	metadata.Ranged(b, "intensity", func(l *Light) *float32 { return &l.Intensity }, 0, 100)
}

type Material struct {
	Specular  Specular
	Emissive  Emissive
	Roughness Roughness
	Metallic  Metallic
	Owner     Player
}

func (Material) DescribeFields(b *metadata.Builder[Material]) {
	metadata.Field(b, "specular", func(m *Material) *Specular { return &m.Specular })
	metadata.Field(b, "emissive", func(m *Material) *Emissive { return &m.Emissive })
	metadata.Field(b, "roughness", func(m *Material) *Roughness { return &m.Roughness })
	metadata.Field(b, "metallic", func(m *Material) *Metallic { return &m.Metallic })
	metadata.Field(b, "owner", func(m *Material) *Player { return &m.Owner })
}

// GFrameBuffer holds the render targets of a deferred pass.
type GFrameBuffer struct {
	PositionTex widget.TextureID
	NormalTex   widget.TextureID
	DepthTex    widget.TextureID
}

func (GFrameBuffer) DescribeFields(b *metadata.Builder[GFrameBuffer]) {
	metadata.Field(b, "positionTex", func(g *GFrameBuffer) *widget.TextureID { return &g.PositionTex })
	metadata.Field(b, "normalTex", func(g *GFrameBuffer) *widget.TextureID { return &g.NormalTex })
	metadata.Field(b, "depthTex", func(g *GFrameBuffer) *widget.TextureID { return &g.DepthTex })
}
