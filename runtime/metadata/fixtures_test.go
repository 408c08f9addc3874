package metadata

import (
	"github.com/conduit-lang/inspector/runtime/widget"
)

type Stats struct {
	Strength int
	Agility  float32
}

func (Stats) DescribeFields(b *Builder[Stats]) {
	Ranged(b, "strength", func(s *Stats) *int { return &s.Strength }, 0, 100)
	Ranged(b, "agility", func(s *Stats) *float32 { return &s.Agility }, 0, 10)
}

type Player struct {
	Name  string
	Alive bool
	Stats Stats
}

func (Player) DescribeFields(b *Builder[Player]) {
	Field(b, "name", func(p *Player) *string { return &p.Name })
	Field(b, "alive", func(p *Player) *bool { return &p.Alive })
	Field(b, "stats", func(p *Player) *Stats { return &p.Stats })
}

type Specular struct {
	R, G, B float32
}

func (Specular) DescribeFields(b *Builder[Specular]) {
	Ranged(b, "r", func(s *Specular) *float32 { return &s.R }, 0, 1)
	Ranged(b, "g", func(s *Specular) *float32 { return &s.G }, 0, 1)
	Ranged(b, "b", func(s *Specular) *float32 { return &s.B }, 0, 1)
}

type Material struct {
	Specular Specular
	Owner    Player
}

func (Material) DescribeFields(b *Builder[Material]) {
	Field(b, "specular", func(m *Material) *Specular { return &m.Specular })
	Field(b, "owner", func(m *Material) *Player { return &m.Owner })
}

type Light struct {
	Color     widget.Vec4
	Offset    widget.Vec2
	Intensity float32
}

func (Light) DescribeFields(b *Builder[Light]) {
	Field(b, "color", func(l *Light) *widget.Vec4 { return &l.Color })
	Field(b, "offset", func(l *Light) *widget.Vec2 { return &l.Offset })
	Ranged(b, "intensity", func(l *Light) *float32 { return &l.Intensity }, 0, 100)
}

type GFrameBuffer struct {
	PositionTex widget.TextureID
	DepthTex    widget.TextureID
}

func (GFrameBuffer) DescribeFields(b *Builder[GFrameBuffer]) {
	Field(b, "positionTex", func(g *GFrameBuffer) *widget.TextureID { return &g.PositionTex })
	Field(b, "depthTex", func(g *GFrameBuffer) *widget.TextureID { return &g.DepthTex })
}

// Primitives covers every scalar the getter formats.
type Primitives struct {
	Flag   bool
	Text   string
	Count  int
	Big    int64
	Small  uint8
	Ratio  float32
	Weight float64
	Speed  float32
	Label  string
}

func (Primitives) DescribeFields(b *Builder[Primitives]) {
	Field(b, "flag", func(p *Primitives) *bool { return &p.Flag })
	Field(b, "text", func(p *Primitives) *string { return &p.Text })
	Field(b, "count", func(p *Primitives) *int { return &p.Count })
	Field(b, "big", func(p *Primitives) *int64 { return &p.Big })
	Field(b, "small", func(p *Primitives) *uint8 { return &p.Small })
	Field(b, "ratio", func(p *Primitives) *float32 { return &p.Ratio })
	Field(b, "weight", func(p *Primitives) *float64 { return &p.Weight })
	Field(b, "speed", func(p *Primitives) *float32 { return &p.Speed }, WithStep(0.5))
	Field(b, "label", func(p *Primitives) *string { return &p.Label }, WithCapacity(8))
}

type (
	Meters  float32
	Percent int
	Mode    string
	Enabled bool
)

// Tuning holds named scalars and narrow numbers.
type Tuning struct {
	Level    Percent
	Distance Meters
	Mode     Mode
	On       Enabled
	Small    uint8
	Tiny     int8
	Huge     uint64
	Fine     float64
	Exact    float64
}

func (Tuning) DescribeFields(b *Builder[Tuning]) {
	Ranged(b, "level", func(t *Tuning) *Percent { return &t.Level }, 0, 100)
	Field(b, "distance", func(t *Tuning) *Meters { return &t.Distance })
	Field(b, "mode", func(t *Tuning) *Mode { return &t.Mode }, WithCapacity(5))
	Field(b, "on", func(t *Tuning) *Enabled { return &t.On })
	Field(b, "small", func(t *Tuning) *uint8 { return &t.Small })
	Field(b, "tiny", func(t *Tuning) *int8 { return &t.Tiny })
	Ranged(b, "huge", func(t *Tuning) *uint64 { return &t.Huge }, 0, 1<<63)
	Ranged(b, "fine", func(t *Tuning) *float64 { return &t.Fine }, 0, 0.1)
	Field(b, "exact", func(t *Tuning) *float64 { return &t.Exact })
}

// Oddities holds fields no editor supports.
type Oddities struct {
	Tags  []int
	Title string
}

func (Oddities) DescribeFields(b *Builder[Oddities]) {
	Field(b, "tags", func(o *Oddities) *[]int { return &o.Tags })
	Ranged(b, "title", func(o *Oddities) *string { return &o.Title }, "a", "z")
}

// cycA and cycB nest each other through pointers.
type cycA struct{ B *cycB }
type cycB struct{ A *cycA }

func (cycA) DescribeFields(b *Builder[cycA]) {
	Field(b, "b", func(a *cycA) *cycB { return a.B })
}

func (cycB) DescribeFields(b *Builder[cycB]) {
	Field(b, "a", func(x *cycB) *cycA { return x.A })
}
