package pixelgrid

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quadIndices are the two triangles of the shared quad template.
var quadIndices = [6]uint16{0, 1, 2, 2, 3, 0}

// quadCorners are the unit-square corners indexed by quadIndices.
var quadCorners = [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// quadCornerStride is the byte stride of one quad corner (vec2<f32>).
const quadCornerStride = 8

// RenderResources holds every GPU object a window needs for its whole
// lifetime: the compiled program and pipeline, the shared quad template,
// the host upload buffer, the device instance buffer, and the uniform.
type RenderResources struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	quadBuf    hal.Buffer
	indexBuf   hal.Buffer
	uploadBuf  hal.Buffer
	cellBuf    hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	format     gputypes.TextureFormat
	properties Properties
	cellCount  uint32
	cellBytes  uint64
}

// newRenderResources allocates everything for a grid of the given size.
// On failure every object created so far is destroyed.
func newRenderResources(ctx *Context, grid, cell Size) (*RenderResources, error) {
	r := &RenderResources{
		device:     ctx.Device(),
		queue:      ctx.Queue(),
		format:     ctx.Format(),
		properties: newProperties(grid, cell),
		cellCount:  uint32(grid.Count()), //nolint:gosec // grid sizes are validated positive
		cellBytes:  uint64(grid.Count()) * cellStride,
	}
	if err := r.createPipeline(r.format); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.createBuffers(); err != nil {
		r.Destroy()
		return nil, err
	}
	Logger().Debug("pixelgrid: render resources created",
		"cells", r.cellCount, "instanceBytes", r.cellBytes, "format", r.format)
	return r, nil
}

// alphaBlend is straight alpha blending over the target. Alpha channels add.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// createPipeline compiles the program and builds the instanced pipeline
// with a fixed alpha blend.
func (r *RenderResources) createPipeline(format gputypes.TextureFormat) error {
	shader, err := createProgram(r.device)
	if err != nil {
		return err
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pixel_grid_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create pixel grid uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "pixel_grid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pixel grid pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	blend := alphaBlend()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "pixel_grid_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    pixelGridVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create pixel grid pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

// createBuffers allocates the quad template, the upload and instance
// buffers, and the uniform with its bind group.
func (r *RenderResources) createBuffers() error {
	var err error
	r.quadBuf, err = r.createAndUploadBuffer("pixel_grid_quad", quadCornerBytes(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.indexBuf, err = r.createAndUploadBuffer("pixel_grid_quad_indices", quadIndexBytes(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	r.uploadBuf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixel_grid_cell_upload",
		Size:  r.cellBytes,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create instance upload buffer: %w", err)
	}
	r.cellBuf, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixel_grid_cells",
		Size:  r.cellBytes,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create instance buffer: %w", err)
	}

	r.uniformBuf, err = r.createAndUploadBuffer("pixel_grid_properties", r.properties.bytes(),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.bindGroup, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pixel_grid_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: propertiesSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create pixel grid bind group: %w", err)
	}
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *RenderResources) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Properties returns the uniform record.
func (r *RenderResources) Properties() Properties { return r.properties }

// Format returns the color format the pipeline renders into.
func (r *RenderResources) Format() gputypes.TextureFormat { return r.format }

// CellCount returns the number of instances drawn per frame.
func (r *RenderResources) CellCount() uint32 { return r.cellCount }

// upload writes the encoded host store into the upload buffer. The copy
// into the instance buffer is recorded separately by recordSync.
func (r *RenderResources) upload(data []byte) {
	r.queue.WriteBuffer(r.uploadBuf, 0, data)
}

// recordSync records the full host-to-device copy for this frame.
func (r *RenderResources) recordSync(encoder hal.CommandEncoder) {
	encoder.CopyBufferToBuffer(r.uploadBuf, r.cellBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: r.cellBytes},
	})
}

// RecordDraw records one instanced draw of the quad template covering
// every cell.
func (r *RenderResources) RecordDraw(rp hal.RenderPassEncoder) {
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.quadBuf, 0)
	rp.SetVertexBuffer(1, r.cellBuf, 0)
	rp.SetIndexBuffer(r.indexBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(uint32(len(quadIndices)), r.cellCount, 0, 0, 0)
}

// Destroy releases all GPU objects in reverse creation order. Safe to call
// multiple times.
func (r *RenderResources) Destroy() {
	if r.device == nil {
		return
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, buf := range []*hal.Buffer{&r.uniformBuf, &r.cellBuf, &r.uploadBuf, &r.indexBuf, &r.quadBuf} {
		if *buf != nil {
			r.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// pixelGridVertexLayout returns the two vertex buffer layouts: the quad
// corner stepped per vertex and the cell stepped per instance.
func pixelGridVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadCornerStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: cellStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // coord
				{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 2}, // color
			},
		},
	}
}

func quadCornerBytes() []byte {
	buf := make([]byte, len(quadCorners)*quadCornerStride)
	for i, c := range quadCorners {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(c[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(c[1]))
	}
	return buf
}

func quadIndexBytes() []byte {
	buf := make([]byte, len(quadIndices)*2)
	for i, idx := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
