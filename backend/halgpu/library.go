package halgpu

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/texview"
	"github.com/gogpu/wgpu/hal"
)

// Library is a compiled shader module and its entry points.
type Library struct {
	name      string
	module    hal.ShaderModule
	functions map[string]*Function
}

// Function is one entry point of a Library.
type Function struct {
	name    string
	stage   ir.ShaderStage
	library *Library
}

// Name returns the entry point name.
func (f *Function) Name() string {
	return f.name
}

// Name returns the library name.
func (l *Library) Name() string {
	return l.name
}

// Function returns the entry point called name.
func (l *Library) Function(name string) (texview.ShaderFunction, error) {
	f, ok := l.functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrFunctionNotFound, l.name, name)
	}
	return f, nil
}

// Functions returns the entry point names in sorted order.
func (l *Library) Functions() []string {
	names := make([]string, 0, len(l.functions))
	for name := range l.functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (l *Library) destroy(device hal.Device) {
	if l.module != nil {
		device.DestroyShaderModule(l.module)
		l.module = nil
	}
}

// compileLibrary validates WGSL source with naga, lowers it to SPIR-V and
// creates the shader module. Both forms are handed to the device so
// backends that translate WGSL themselves can skip the SPIR-V.
func compileLibrary(device hal.Device, name, source string) (*Library, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("halgpu: parse %s: %w", name, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("halgpu: lower %s: %w", name, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("halgpu: validate %s: %w", name, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("halgpu: validate %s: %w", name, &verrs[0])
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, fmt.Errorf("halgpu: generate SPIR-V for %s: %w", name, err)
	}
	words, err := spirvWords(code)
	if err != nil {
		return nil, fmt.Errorf("halgpu: %s: %w", name, err)
	}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{WGSL: source, SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create shader module %s: %w", name, err)
	}

	lib := &Library{
		name:      name,
		module:    shader,
		functions: make(map[string]*Function, len(module.EntryPoints)),
	}
	for _, ep := range module.EntryPoints {
		lib.functions[ep.Name] = &Function{name: ep.Name, stage: ep.Stage, library: lib}
	}
	return lib, nil
}

// spirvWords converts SPIR-V bytes to little-endian 32-bit words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}
