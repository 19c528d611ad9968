package main

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	chip8 "github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
)

const (
	ScreenWidth  = chip8.GfxWidth
	ScreenHeight = chip8.GfxHeight
	windowTitle  = "Chip8"
)

type Emulator struct {
	sys    *chip8.System
	opts   config.Options
	logger *log.Logger

	keyMap map[glfw.Key]int
	tone   bool

	window                *glfw.Window
	fullScreenTriangleVAO uint32
	bufferTexture         uint32
	shaderProgram         uint32
}

const vertexShader = `
#version 330

noperspective out vec2 TexCoord;

void main(void) {
    TexCoord.x = (gl_VertexID == 2)? 2.0: 0.0;
    TexCoord.y = (gl_VertexID == 1)? 2.0: 0.0;

	gl_Position = vec4(2.0 * TexCoord - 1.0, 0.0, 1.0);
}
`

// The frame buffer is uploaded top row first, so flip vertically here.
const fragmentShader = `
#version 330

uniform sampler2D buffer;
noperspective in vec2 TexCoord;

out vec3 outColor;

void main(void) {
	outColor = texture(buffer, vec2(TexCoord.x, 1.0 - TexCoord.y)).rgb;
}
`

// glfwKeyMap translates the shared keyboard layout. GLFW key codes for
// digits and letters are their upper case ASCII values.
func glfwKeyMap() map[glfw.Key]int {
	m := make(map[glfw.Key]int, len(config.KeyLayout))
	for r, key := range config.KeyLayout {
		m[glfw.Key(unicode.ToUpper(r))] = key
	}
	return m
}

func NewEmulator(sys *chip8.System, opts config.Options, logger *log.Logger) *Emulator {
	return &Emulator{
		sys:    sys,
		opts:   opts,
		logger: logger,
		keyMap: glfwKeyMap(),
	}
}

func (emu *Emulator) Initialize() error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("initializing glfw: %w", err)
	}

	// Create window
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	emu.window, err = glfw.CreateWindow(ScreenWidth*emu.opts.Scale, ScreenHeight*emu.opts.Scale, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	emu.window.MakeContextCurrent()

	// Key handling
	emu.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		c8Key, ok := emu.keyMap[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			emu.sys.OnKeyDown(c8Key)
		case glfw.Release:
			emu.sys.OnKeyUp(c8Key)
		}
	})

	// Initialize Glow
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing gl: %w", err)
	}
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)

	gl.GenVertexArrays(1, &emu.fullScreenTriangleVAO)
	gl.BindVertexArray(emu.fullScreenTriangleVAO)

	if err := emu.linkProgram(); err != nil {
		return err
	}

	pixels := emu.sys.Pixels()
	gl.GenTextures(1, &emu.bufferTexture)
	gl.BindTexture(gl.TEXTURE_2D, emu.bufferTexture)

	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		ScreenWidth, ScreenHeight, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	bufferLoc := gl.GetUniformLocation(emu.shaderProgram, gl.Str("buffer"+"\x00"))
	gl.Uniform1i(bufferLoc, 0)

	gl.Disable(gl.DEPTH_TEST)
	return nil
}

func (emu *Emulator) linkProgram() error {
	var status int32

	emu.shaderProgram = gl.CreateProgram()

	vs, err := compileShader(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vs)
	gl.AttachShader(emu.shaderProgram, vs)
	defer gl.DetachShader(emu.shaderProgram, vs)

	fs, err := compileShader(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fs)
	gl.AttachShader(emu.shaderProgram, fs)
	defer gl.DetachShader(emu.shaderProgram, fs)

	gl.LinkProgram(emu.shaderProgram)
	gl.GetProgramiv(emu.shaderProgram, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return fmt.Errorf("failed to link shaderProgram")
	}
	gl.UseProgram(emu.shaderProgram)
	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile %v: %v", source, log)
	}

	return shader, nil
}

// UpdateTexture uploads the frame buffer as is: every pixel is either all
// bits set or zero, which reads as white or black RGBA.
func (emu *Emulator) UpdateTexture() {
	pixels := emu.sys.Pixels()
	gl.TexSubImage2D(
		gl.TEXTURE_2D, 0, 0, 0,
		ScreenWidth, ScreenHeight, gl.RGBA, gl.UNSIGNED_BYTE,
		unsafe.Pointer(&pixels[0]))

	gl.BindVertexArray(emu.fullScreenTriangleVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// updateTone reflects the sound timer in the window title.
func (emu *Emulator) updateTone() {
	tone := emu.sys.SoundTimer() > 0
	if tone == emu.tone {
		return
	}
	emu.tone = tone
	emu.logger.Debug("Tone changed", log.Uint8("sound_timer", emu.sys.SoundTimer()))
	if tone {
		emu.window.SetTitle(windowTitle + " ♪")
	} else {
		emu.window.SetTitle(windowTitle)
	}
}

// Loop runs the machine at opts.Hz steps per second and redraws at 60 Hz.
func (emu *Emulator) Loop() error {
	stepsPerFrame := emu.opts.Hz / chip8.TimerHz
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	for !emu.window.ShouldClose() {
		start := time.Now()

		glfw.PollEvents()

		for i := 0; i < stepsPerFrame; i++ {
			if err := emu.sys.Step(); err != nil {
				return err
			}
		}
		emu.updateTone()

		if emu.sys.IsDirty() {
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
			emu.UpdateTexture()
			emu.window.SwapBuffers()

			emu.sys.SetDirty(false)
		}

		if elapsed, slice := time.Since(start), time.Second/chip8.TimerHz; elapsed < slice {
			time.Sleep(slice - elapsed)
		}
	}
	return nil
}

func (emu *Emulator) Terminate() {
	gl.DeleteVertexArrays(1, &emu.fullScreenTriangleVAO)
	gl.DeleteTextures(1, &emu.bufferTexture)
	gl.DeleteProgram(emu.shaderProgram)
	glfw.Terminate()
}
