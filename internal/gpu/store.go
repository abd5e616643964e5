// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/breeze/internal/mesh"
	"github.com/gogpu/breeze/internal/pool"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrStoreClosed is returned when allocating from a closed Store.
var ErrStoreClosed = errors.New("gpu: store is closed")

// materialUniformSize is the byte size of the Material uniform block:
// color vec4<f32> + flags vec4<f32>.
const materialUniformSize = 32

// Shading selects the shader program a material is drawn with.
type Shading uint8

const (
	// ShadingUnlit is flat color, used for 2D geometry.
	ShadingUnlit Shading = iota
	// ShadingLit is Lambert-shaded, used for 3D geometry.
	ShadingLit
)

// String returns the shading model name.
func (s Shading) String() string {
	switch s {
	case ShadingUnlit:
		return "unlit"
	case ShadingLit:
		return "lit"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// MeshID identifies a mesh in a Store. The zero MeshID is "none".
type MeshID pool.Handle

// IsZero reports whether id is the zero "none" mesh.
func (id MeshID) IsZero() bool { return id == 0 }

// MaterialID identifies a material in a Store. The zero MaterialID is "none".
type MaterialID pool.Handle

// IsZero reports whether id is the zero "none" material.
func (id MaterialID) IsZero() bool { return id == 0 }

// MaterialInfo describes a live material.
type MaterialInfo struct {
	Shading Shading
	Color   [4]float32
	Texture uint64 // 0 = untextured
}

type meshEntry struct {
	label  string
	data   mesh.Data
	vertex hal.Buffer
	index  hal.Buffer
	bytes  uint64
}

type materialEntry struct {
	info    MaterialInfo
	uniform hal.Buffer
}

// Stats is the allocation accounting of a Store.
type Stats struct {
	MeshesAllocated    uint64
	MeshesReleased     uint64
	MaterialsAllocated uint64
	MaterialsReleased  uint64
	LiveMeshes         int
	LiveMaterials      int
	UsedBytes          uint64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Store[meshes %d live (%d/%d), materials %d live (%d/%d), %d KB]",
		s.LiveMeshes, s.MeshesAllocated, s.MeshesReleased,
		s.LiveMaterials, s.MaterialsAllocated, s.MaterialsReleased,
		s.UsedBytes/1024)
}

// Store owns every GPU asset breeze allocates: mesh vertex/index buffers,
// material uniform buffers and the compiled shader modules.
//
// Assets are addressed by generational IDs. Releasing an asset destroys its
// buffers and invalidates the ID; releasing it again, or releasing an ID
// from an earlier generation, is a no-op that returns false.
//
// Store is not safe for concurrent use.
type Store struct {
	device  hal.Device
	queue   hal.Queue
	shaders [2]hal.ShaderModule

	meshes    *pool.Arena[meshEntry]
	materials *pool.Arena[materialEntry]

	stats  Stats
	closed bool
}

// NewStore compiles the shader programs on device and returns an empty store.
func NewStore(device hal.Device, queue hal.Queue) (*Store, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	s := &Store{
		device:    device,
		queue:     queue,
		meshes:    pool.New[meshEntry](64),
		materials: pool.New[materialEntry](64),
	}
	for _, sh := range []Shading{ShadingUnlit, ShadingLit} {
		m, err := createShaderModule(device, sh)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.shaders[sh] = m
	}
	slogger().Info("gpu: asset store ready")
	return s, nil
}

// VertexLayout describes the packed mesh.Vertex layout for pipeline creation.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: mesh.VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// Shader returns the compiled module for a shading model.
func (s *Store) Shader(sh Shading) hal.ShaderModule {
	if int(sh) >= len(s.shaders) {
		return nil
	}
	return s.shaders[sh]
}

// CreateMesh uploads d into fresh vertex and index buffers.
func (s *Store) CreateMesh(label string, d mesh.Data) (MeshID, error) {
	if s.closed {
		return 0, ErrStoreClosed
	}
	vb, err := s.upload(label+"-vertices", d.VertexBytes(), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return 0, err
	}
	ib, err := s.upload(label+"-indices", d.IndexBytes(), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		s.device.DestroyBuffer(vb)
		return 0, err
	}
	e := meshEntry{
		label:  label,
		data:   d,
		vertex: vb,
		index:  ib,
		bytes:  uint64(len(d.Vertices)*mesh.VertexStride + len(d.Indices)*4),
	}
	id := MeshID(s.meshes.Insert(e))
	s.stats.MeshesAllocated++
	s.stats.UsedBytes += e.bytes
	return id, nil
}

// ReleaseMesh destroys the buffers of id. It returns false if id is not live.
func (s *Store) ReleaseMesh(id MeshID) bool {
	e, ok := s.meshes.Remove(pool.Handle(id))
	if !ok {
		return false
	}
	s.device.DestroyBuffer(e.vertex)
	s.device.DestroyBuffer(e.index)
	s.stats.MeshesReleased++
	s.stats.UsedBytes -= e.bytes
	return true
}

// MeshAlive reports whether id refers to a live mesh.
func (s *Store) MeshAlive(id MeshID) bool {
	return s.meshes.Alive(pool.Handle(id))
}

// MeshData returns the CPU copy of a live mesh. The returned data must not
// be modified.
func (s *Store) MeshData(id MeshID) (*mesh.Data, bool) {
	e := s.meshes.Get(pool.Handle(id))
	if e == nil {
		return nil, false
	}
	return &e.data, true
}

// CreateMaterial allocates a material uniform buffer for the given color
// and optional texture.
func (s *Store) CreateMaterial(sh Shading, color [4]float32, texture uint64) (MaterialID, error) {
	if s.closed {
		return 0, ErrStoreClosed
	}
	var block [materialUniformSize]byte
	for i, c := range color {
		binary.LittleEndian.PutUint32(block[i*4:], math.Float32bits(c))
	}
	if texture != 0 {
		binary.LittleEndian.PutUint32(block[16:], math.Float32bits(1))
	}
	ub, err := s.upload("material-"+sh.String(), block[:], gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return 0, err
	}
	id := MaterialID(s.materials.Insert(materialEntry{
		info:    MaterialInfo{Shading: sh, Color: color, Texture: texture},
		uniform: ub,
	}))
	s.stats.MaterialsAllocated++
	s.stats.UsedBytes += materialUniformSize
	return id, nil
}

// ReleaseMaterial destroys the uniform buffer of id. It returns false if id
// is not live.
func (s *Store) ReleaseMaterial(id MaterialID) bool {
	e, ok := s.materials.Remove(pool.Handle(id))
	if !ok {
		return false
	}
	s.device.DestroyBuffer(e.uniform)
	s.stats.MaterialsReleased++
	s.stats.UsedBytes -= materialUniformSize
	return true
}

// MaterialAlive reports whether id refers to a live material.
func (s *Store) MaterialAlive(id MaterialID) bool {
	return s.materials.Alive(pool.Handle(id))
}

// Material returns the description of a live material.
func (s *Store) Material(id MaterialID) (MaterialInfo, bool) {
	e := s.materials.Get(pool.Handle(id))
	if e == nil {
		return MaterialInfo{}, false
	}
	return e.info, true
}

// Stats returns the current allocation accounting.
func (s *Store) Stats() Stats {
	st := s.stats
	st.LiveMeshes = s.meshes.Len()
	st.LiveMaterials = s.materials.Len()
	return st
}

// Close releases every remaining asset and the shader modules. The device
// itself is not destroyed.
func (s *Store) Close() {
	if s.closed {
		return
	}
	for _, h := range s.meshes.Handles(nil) {
		s.ReleaseMesh(MeshID(h))
	}
	for _, h := range s.materials.Handles(nil) {
		s.ReleaseMaterial(MaterialID(h))
	}
	for i, m := range s.shaders {
		if m != nil {
			s.device.DestroyShaderModule(m)
			s.shaders[i] = nil
		}
	}
	s.closed = true
}

// upload creates a buffer sized to data (at least 4 bytes, 4-byte aligned)
// and writes data into it.
func (s *Store) upload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := uint64(len(data)+3) &^ 3
	if size == 0 {
		size = 4
	}
	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create buffer %s: %w", label, err)
	}
	if len(data) > 0 {
		if err := s.queue.WriteBuffer(buf, 0, data); err != nil {
			s.device.DestroyBuffer(buf)
			return nil, fmt.Errorf("gpu: write buffer %s: %w", label, err)
		}
	}
	return buf, nil
}
