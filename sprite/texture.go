package sprite

// TextureID is an interned texture name. The zero value means no texture.
type TextureID uint16

const NoTexture TextureID = 0

// Textures interns texture names once at startup so entities carry small ids
// instead of strings.
type Textures struct {
	names  []string
	frames []int
	byName map[string]TextureID
}

// NewTextures creates an empty registry.
func NewTextures() *Textures {
	return &Textures{
		names:  []string{""},
		frames: []int{0},
		byName: make(map[string]TextureID),
	}
}

// Intern returns the id for name, registering it with the given frame count
// on first use. A later Intern with a larger frame count raises it.
func (t *Textures) Intern(name string, frames int) TextureID {
	if t == nil || name == "" {
		return NoTexture
	}
	if frames < 1 {
		frames = 1
	}
	if id, ok := t.byName[name]; ok {
		if frames > t.frames[id] {
			t.frames[id] = frames
		}
		return id
	}
	id := TextureID(len(t.names))
	t.names = append(t.names, name)
	t.frames = append(t.frames, frames)
	t.byName[name] = id
	return id
}

// Lookup returns the id of an already interned name.
func (t *Textures) Lookup(name string) (TextureID, bool) {
	if t == nil {
		return NoTexture, false
	}
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the name for id, or "" for NoTexture and unknown ids.
func (t *Textures) Name(id TextureID) string {
	if t == nil || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Frames returns the frame count registered for id.
func (t *Textures) Frames(id TextureID) int {
	if t == nil || int(id) >= len(t.frames) {
		return 0
	}
	return t.frames[id]
}

// Len returns the number of interned textures.
func (t *Textures) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names) - 1
}

// Each calls fn for every interned texture in id order.
func (t *Textures) Each(fn func(id TextureID, name string, frames int)) {
	if t == nil || fn == nil {
		return
	}
	for i := 1; i < len(t.names); i++ {
		fn(TextureID(i), t.names[i], t.frames[i])
	}
}
