package audio

import (
	"log"
	"math"
	"os"
	"path/filepath"

	"gothic3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// defaultRadius is used for sounds without an audible radius, in world units.
const defaultRadius = 2500

// Listener represents the audio listener position and orientation
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// NewListener builds a listener at pos looking along forward.
func NewListener(pos, forward, up rl.Vector3) Listener {
	l := Listener{Position: pos}

	// Normalize forward, default to -Z if zero
	fwdLen := rl.Vector3Length(forward)
	if fwdLen > 0.001 {
		l.Forward = rl.Vector3Scale(forward, 1.0/fwdLen)
	} else {
		l.Forward = rl.Vector3{X: 0, Y: 0, Z: -1}
	}

	// Calculate right vector (forward × up)
	right := rl.Vector3CrossProduct(l.Forward, up)
	rightLen := rl.Vector3Length(right)
	if rightLen > 0.001 {
		l.Right = rl.Vector3Scale(right, 1.0/rightLen)
	} else {
		l.Right = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	return l
}

// Spatialize returns the volume and pan (0 left, 0.5 center, 1 right) of a
// source at pos that is audible up to maxDist.
func (l Listener) Spatialize(pos rl.Vector3, maxDist, volume float32) (float32, float32) {
	toSource := rl.Vector3Subtract(pos, l.Position)
	distance := rl.Vector3Length(toSource)

	// Distance attenuation
	var vol float32 = 0
	if distance < maxDist {
		// Linear falloff
		vol = volume * (1.0 - distance/maxDist)
	}

	var pan float32 = 0.5 // center
	if distance > 0.001 {
		direction := rl.Vector3Scale(toSource, 1.0/distance)
		rightDot := rl.Vector3DotProduct(direction, l.Right)
		pan = 0.5 + rightDot*0.5

		// Clamp pan to valid range
		if pan < 0.0 {
			pan = 0.0
		} else if pan > 1.0 {
			pan = 1.0
		}

		// Sounds behind the listener are slightly quieter
		frontDot := rl.Vector3DotProduct(direction, l.Forward)
		if frontDot < 0 {
			vol *= 0.7 + 0.3*float32(math.Abs(float64(frontDot)))
		}
	}
	return vol, pan
}

type source struct {
	name   string
	sound  rl.Sound
	pos    rl.Vector3
	radius float32
	volume float32
}

// Ambience loops the positional sounds of a world.
type Ambience struct {
	dir     string
	sources []*source
	Logger  *log.Logger
}

// Init opens the audio device. It needs a window.
func Init() {
	rl.InitAudioDevice()
}

// Close shuts down the audio device.
func Close() {
	rl.CloseAudioDevice()
}

// NewAmbience looks sound files up in dir.
func NewAmbience(dir string) *Ambience {
	return &Ambience{dir: dir, Logger: log.Default()}
}

// Load replaces the playing sounds with the given world sounds. Files that
// are missing or fail to decode are skipped.
func (a *Ambience) Load(sounds []world.Sound) {
	a.Unload()
	for _, s := range sounds {
		if s.File == "" {
			continue
		}
		path := filepath.Join(a.dir, s.File)
		if _, err := os.Stat(path); err != nil {
			a.Logger.Printf("[audio] %s: %v", s.Name, err)
			continue
		}
		snd := rl.LoadSound(path)
		if !rl.IsSoundValid(snd) {
			a.Logger.Printf("[audio] %s: cannot decode %s", s.Name, path)
			continue
		}
		radius := s.Radius
		if radius <= 0 {
			radius = defaultRadius
		}
		a.sources = append(a.sources, &source{
			name:   s.Name,
			sound:  snd,
			pos:    s.Pos,
			radius: radius,
			volume: s.Volume,
		})
	}
	if len(a.sources) > 0 {
		a.Logger.Printf("[audio] %d ambient sounds", len(a.sources))
	}
}

// Update restarts finished loops and spatializes every source for l.
func (a *Ambience) Update(l Listener) {
	for _, src := range a.sources {
		if !rl.IsSoundPlaying(src.sound) {
			rl.PlaySound(src.sound)
		}
		vol, pan := l.Spatialize(src.pos, src.radius, src.volume)
		rl.SetSoundVolume(src.sound, vol)
		rl.SetSoundPan(src.sound, pan)
	}
}

// Unload stops and frees every sound.
func (a *Ambience) Unload() {
	for _, src := range a.sources {
		rl.StopSound(src.sound)
		rl.UnloadSound(src.sound)
	}
	a.sources = nil
}
