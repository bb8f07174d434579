package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/bloodroom/collision"
	"github.com/milk9111/bloodroom/prefabs"
)

// playerState is the interface each concrete player state implements.
type playerState interface {
	Enter(p *Player)
	HandleInput(p *Player)
	OnPhysics(p *Player)
	Name() string
}

// Releasing jump while rising keeps this share of the upward speed.
const jumpCut = 0.5

func (p *Player) setState(s playerState) {
	p.state = s
	p.state.Enter(p)
}

type idleState struct{}

func (idleState) Name() string    { return "idle" }
func (idleState) Enter(p *Player) { p.doubleJumped = false }
func (idleState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		p.jump(p.spec.JumpSpeed, stateJumping)
		return
	}
	if p.Input.MoveX != 0 {
		p.setState(stateRunning)
	}
}
func (idleState) OnPhysics(p *Player) {
	if !p.grounded {
		p.setState(stateFalling)
	}
}

type runningState struct{}

func (runningState) Name() string    { return "running" }
func (runningState) Enter(p *Player) { p.doubleJumped = false }
func (runningState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		p.jump(p.spec.JumpSpeed, stateJumping)
		return
	}
	if p.Input.MoveX == 0 {
		p.setState(stateIdle)
	}
}
func (runningState) OnPhysics(p *Player) {
	if !p.grounded {
		p.coyoteTimer = p.spec.CoyoteFrames
		p.setState(stateFalling)
	}
}

type jumpingState struct{}

func (jumpingState) Name() string  { return "jumping" }
func (jumpingState) Enter(*Player) {}
func (jumpingState) HandleInput(p *Player) {
	if p.Input.JumpPressed && !p.doubleJumped {
		p.doubleJumped = true
		p.jump(p.spec.DoubleJumpSpeed, stateDoubleJumping)
		return
	}
	if !p.Input.JumpHeld && p.Body.Vel.Y < 0 {
		p.Body.Vel.Y *= jumpCut
	}
}
func (jumpingState) OnPhysics(p *Player) {
	if p.grounded {
		p.land()
		return
	}
	if p.Body.Vel.Y >= 0 {
		p.setState(stateFalling)
	}
}

type doubleJumpingState struct{}

func (doubleJumpingState) Name() string        { return "doublejump" }
func (doubleJumpingState) Enter(*Player)       {}
func (doubleJumpingState) HandleInput(*Player) {}
func (doubleJumpingState) OnPhysics(p *Player) {
	if p.grounded {
		p.land()
		return
	}
	if p.Body.Vel.Y >= 0 {
		p.setState(stateFalling)
	}
}

type fallingState struct{}

func (fallingState) Name() string  { return "falling" }
func (fallingState) Enter(*Player) {}
func (fallingState) HandleInput(p *Player) {
	if !p.Input.JumpPressed {
		return
	}
	// Allow a ground jump shortly after running off a ledge.
	if p.coyoteTimer > 0 {
		p.coyoteTimer = 0
		p.jump(p.spec.JumpSpeed, stateJumping)
		return
	}
	if !p.doubleJumped {
		p.doubleJumped = true
		p.jump(p.spec.DoubleJumpSpeed, stateDoubleJumping)
	}
}
func (fallingState) OnPhysics(p *Player) {
	if p.grounded {
		p.land()
	}
}

var (
	stateIdle          playerState = &idleState{}
	stateRunning       playerState = &runningState{}
	stateJumping       playerState = &jumpingState{}
	stateDoubleJumping playerState = &doubleJumpingState{}
	stateFalling       playerState = &fallingState{}
)

// Player is the controllable actor. Velocities are in pixels per frame.
type Player struct {
	Body  collision.Actor
	Input *Input

	spec         prefabs.PlayerSpec
	state        playerState
	grounded     bool
	doubleJumped bool
	coyoteTimer  int
	facingRight  bool
}

func NewPlayer(spawn image.Point, cell int, input *Input, spec prefabs.PlayerSpec) *Player {
	p := &Player{
		Body:        collision.Actor{W: spec.Width, H: spec.Height},
		Input:       input,
		spec:        spec,
		facingRight: true,
	}
	p.Respawn(spawn, cell)
	return p
}

// Respawn puts the player on the floor of the spawn cell, centred, at rest.
func (p *Player) Respawn(spawn image.Point, cell int) {
	p.Body.Pos = cp.Vector{
		X: float64(spawn.X) + (float64(cell)-p.Body.W)/2,
		Y: float64(spawn.Y) + float64(cell) - p.Body.H,
	}
	p.Body.Vel = cp.Vector{}
	p.grounded = false
	p.coyoteTimer = 0
	p.setState(stateFalling)
}

// RefreshJump gives back the air jump, e.g. after a powerup.
func (p *Player) RefreshJump() {
	p.doubleJumped = false
}

func (p *Player) State() string {
	return p.state.Name()
}

// Update runs one frame: input, movement, then the collision pass.
func (p *Player) Update(resolver *collision.Resolver) collision.Result {
	p.state.HandleInput(p)

	p.Body.Vel.X = p.spec.MoveSpeed * p.Input.MoveX
	if p.Input.MoveX < 0 {
		p.facingRight = false
	} else if p.Input.MoveX > 0 {
		p.facingRight = true
	}

	p.Body.Vel.Y += p.spec.Gravity
	if p.spec.MaxFallSpeed > 0 && p.Body.Vel.Y > p.spec.MaxFallSpeed {
		p.Body.Vel.Y = p.spec.MaxFallSpeed
	}
	p.Body.Pos = p.Body.Pos.Add(p.Body.Vel)

	res := resolver.Resolve(&p.Body)
	p.grounded = res.Grounded
	if p.coyoteTimer > 0 {
		p.coyoteTimer--
	}

	p.state.OnPhysics(p)
	return res
}

func (p *Player) jump(speed float64, next playerState) {
	p.Body.Vel.Y = -speed
	p.grounded = false
	p.setState(next)
}

func (p *Player) land() {
	if p.Input.MoveX != 0 {
		p.setState(stateRunning)
	} else {
		p.setState(stateIdle)
	}
}

func (p *Player) Draw(screen *ebiten.Image) {
	x, y := float32(p.Body.Pos.X), float32(p.Body.Pos.Y)
	w, h := float32(p.Body.W), float32(p.Body.H)
	vector.FillRect(screen, x, y, w, h, p.spec.Color.RGBA, false)

	// Eye on the facing side.
	ex := x + w*0.65
	if !p.facingRight {
		ex = x + w*0.2
	}
	vector.FillRect(screen, ex, y+h*0.2, w*0.15, h*0.12, colornames.Black, false)
}
