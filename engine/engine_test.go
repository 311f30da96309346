// Copyright 2026 The vkview Authors. All rights reserved.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkview/vkview/driver"
	"github.com/vkview/vkview/driver/fake"
	"github.com/vkview/vkview/scene"
)

// testConfig returns a configuration that uses the fake
// driver and dummy shader files.
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	config := DefaultConfig()
	config.Driver = "fake"
	config.VertShader = filepath.Join(dir, "vert.spv")
	config.FragShader = filepath.Join(dir, "frag.spv")
	spirv := []byte{0x03, 0x02, 0x23, 0x07}
	require.NoError(t, os.WriteFile(config.VertShader, spirv, 0o644))
	require.NoError(t, os.WriteFile(config.FragShader, spirv, 0o644))
	return config
}

// spyView counts view size updates.
type spyView struct {
	*scene.Camera
	sizes [][2]int
}

func (v *spyView) SetViewSize(width, height int) {
	v.sizes = append(v.sizes, [2]int{width, height})
	v.Camera.SetViewSize(width, height)
}

// spyScene is a scene whose view is a spyView.
type spyScene struct {
	*scene.Scene
	view *spyView
}

func (s *spyScene) View() scene.View { return s.view }

func newSpyScene() *spyScene {
	s := scene.New()
	return &spyScene{s, &spyView{Camera: s.Camera}}
}

type fixture struct {
	e     *Engine
	d     *fake.Driver
	win   *fake.Window
	scene *spyScene
}

// newFixture registers a fake driver created from fc and
// returns an engine that is not started yet.
func newFixture(t *testing.T, fc fake.Config, config *Config) *fixture {
	t.Helper()
	d := fake.New(fc)
	driver.Register(d)
	if config == nil {
		c := testConfig(t)
		config = &c
	}
	f := &fixture{
		e:     New(config),
		d:     d,
		win:   fake.NewWindow(800, 600, 1),
		scene: newSpyScene(),
	}
	f.e.SetScene(f.scene)
	return f
}

// started returns a fixture whose engine is started with
// the default fake configuration.
func started(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, fake.DefaultConfig(), nil)
	require.NoError(t, f.e.Startup(f.win))
	t.Cleanup(f.e.Destroy)
	return f
}

func TestStartupRenderTeardown(t *testing.T) {
	f := newFixture(t, fake.DefaultConfig(), nil)
	require.NoError(t, f.e.Startup(f.win))
	require.NoError(t, f.e.Render())
	assert.Equal(t, 1, f.d.Stats().Draws)

	mark := f.d.Mark()
	f.e.Destroy()
	assert.NoError(t, f.d.ReverseSince(mark))
	assert.Empty(t, f.d.Live())
	assert.Empty(t, f.d.DoubleDestroys())
	assert.Empty(t, f.d.Violations())

	for _, kind := range []string{"instance", "surface", "device", "swapchain", "renderpass", "pipeline", "sampler", "fence"} {
		assert.Positive(t, f.d.Created(kind), kind)
	}
	assert.Equal(t, 2*MaxFrame, f.d.Created("semaphore"))
	assert.Equal(t, MaxFrame, f.d.Created("fence"))

	assert.ErrorIs(t, f.e.Render(), errNotStarted)
	f.e.Destroy()
	assert.Empty(t, f.d.DoubleDestroys())
}

func TestStartupOrder(t *testing.T) {
	f := newFixture(t, fake.DefaultConfig(), nil)
	require.NoError(t, f.e.Startup(f.win))
	defer f.e.Destroy()

	first := make(map[string]int)
	for i, ev := range f.d.Events() {
		if _, ok := first[ev.Kind]; !ok && ev.Op == fake.Create {
			first[ev.Kind] = i
		}
	}
	order := []string{
		"instance", "surface", "device", "swapchain", "view", "renderpass",
		"desclayout", "descpool", "pipelinelayout", "pipeline", "image",
		"framebuf", "cmdpool", "sampler", "cmdbuf", "semaphore", "buffer", "descset",
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, first[order[i-1]], first[order[i]], "%s before %s", order[i-1], order[i])
	}
	assert.Equal(t, ChainReady, f.e.Swapchain().State())
}

func TestStartupErrors(t *testing.T) {
	e := New(nil)
	assert.ErrorIs(t, e.Startup(nil), errNoWindow)
	assert.ErrorIs(t, e.Startup(fake.NewWindow(1, 1, 1)), errNoScene)

	f := started(t)
	assert.ErrorIs(t, f.e.Startup(f.win), errStarted)
}

func TestFramesInFlight(t *testing.T) {
	f := started(t)
	for range 20 {
		require.NoError(t, f.e.Render())
	}
	st := f.d.Stats()
	assert.LessOrEqual(t, st.MaxInFlight, MaxFrame)
	assert.Equal(t, MaxFrame, st.MaxInFlight)
	assert.Equal(t, 20, st.Draws)
	assert.Equal(t, 20, st.Presents)
	assert.Empty(t, f.d.Violations())
}

func TestSlotCycle(t *testing.T) {
	f := started(t)
	var slots []int
	for i := range 12 {
		switch i {
		case 2:
			f.d.FailAcquire(driver.ErrOutOfDate)
		case 5:
			f.d.FailPresent(driver.ErrSuboptimal)
		case 8:
			f.e.Resize(640, 480, 1)
		}
		slot := f.e.Slot()
		presents := f.d.Stats().Presents
		require.NoError(t, f.e.Render())
		if f.d.Stats().Presents > presents {
			slots = append(slots, slot)
		}
		assert.GreaterOrEqual(t, f.e.Slot(), 0)
		assert.Less(t, f.e.Slot(), MaxFrame)
	}
	require.Len(t, slots, 11)
	for i, s := range slots {
		assert.Equal(t, i%MaxFrame, s, "present %d", i)
	}
	assert.Equal(t, 3, f.e.Recreates())
	assert.Empty(t, f.d.Violations())
}

func TestRecreateLengths(t *testing.T) {
	f := started(t)
	check := func() {
		t.Helper()
		imgs, views, fbs, unifs := f.e.Swapchain().Len()
		assert.Positive(t, imgs)
		assert.Equal(t, imgs, views)
		assert.Equal(t, imgs, fbs)
		assert.Equal(t, imgs, unifs)
		assert.Len(t, f.e.Swapchain().sets, imgs)
	}
	check()

	f.e.Resize(400, 300, 2)
	require.NoError(t, f.e.Render())
	assert.Equal(t, 1, f.e.Recreates())
	check()

	params := f.d.SwapchainParams()
	require.Len(t, params, 2)
	assert.Equal(t, driver.Extent{Width: 800, Height: 600}, params[1].Extent)
	assert.Equal(t, 1, f.d.LiveKind("swapchain"))
	assert.Equal(t, ChainReady, f.e.Swapchain().State())

	// Nothing else is rebuilt.
	assert.Equal(t, 1, f.d.Created("pipeline"))
	assert.Equal(t, 2*MaxFrame, f.d.Created("semaphore"))
}

func TestResizePixels(t *testing.T) {
	f := started(t)
	view := f.scene.view
	require.NoError(t, f.e.Render())
	require.Len(t, view.sizes, 1)
	assert.Equal(t, [2]int{800, 600}, view.sizes[0])

	f.e.Resize(101, 51, 1.5)
	assert.Len(t, view.sizes, 1, "resize does no work until the next frame")
	require.NoError(t, f.e.Render())
	vi := f.e.Viewport()
	assert.Equal(t, 152, vi.PixelWidth)
	assert.Equal(t, 77, vi.PixelHeight)
	assert.Equal(t, vi.UpdateCount, vi.RenderCount)
	require.Len(t, view.sizes, 2)
	assert.Equal(t, [2]int{152, 77}, view.sizes[1])

	for range 3 {
		require.NoError(t, f.e.Render())
	}
	assert.Len(t, view.sizes, 2)

	// A zero ratio keeps the current one.
	f.e.Resize(200, 100, 0)
	require.NoError(t, f.e.Render())
	assert.Equal(t, [2]int{300, 150}, view.sizes[2])
}

func TestOutOfDateAcquire(t *testing.T) {
	f := started(t)
	require.NoError(t, f.e.Render())
	before := f.d.Stats()
	slot := f.e.Slot()

	f.d.FailAcquire(driver.ErrOutOfDate)
	require.NoError(t, f.e.Render())
	after := f.d.Stats()
	assert.Equal(t, 1, f.e.Recreates())
	assert.Equal(t, before.Draws, after.Draws)
	assert.Equal(t, before.Submits, after.Submits)
	assert.Equal(t, before.Presents, after.Presents)
	assert.Equal(t, slot, f.e.Slot())
	assert.Len(t, f.d.SwapchainParams(), 2)

	require.NoError(t, f.e.Render())
	assert.Equal(t, before.Draws+1, f.d.Stats().Draws)
	assert.Equal(t, 1, f.e.Recreates())
	assert.Empty(t, f.d.Violations())
}

func TestSuboptimalAcquire(t *testing.T) {
	f := started(t)
	f.d.FailAcquire(driver.ErrSuboptimal)
	require.NoError(t, f.e.Render())
	assert.Equal(t, 1, f.d.Stats().Draws)
	assert.Equal(t, 0, f.e.Recreates())
}

func TestFatalPresent(t *testing.T) {
	f := started(t)
	f.d.FailPresent(driver.ErrDeviceLost)
	err := f.e.Render()
	assert.ErrorIs(t, err, ErrFrame)
	assert.ErrorIs(t, err, driver.ErrDeviceLost)
	assert.Equal(t, 0, f.e.Recreates())

	// The slot fence was reset and will not be signaled
	// again, so later frames must not wait on it.
	before := f.d.Stats()
	assert.Equal(t, err, f.e.Render())
	assert.Equal(t, before, f.d.Stats())
}

func TestFailedRecreate(t *testing.T) {
	f := started(t)
	require.NoError(t, f.e.Render())

	f.d.FailAcquire(driver.ErrOutOfDate)
	f.d.FailNext("swapchain", nil)
	err := f.e.Render()
	require.ErrorIs(t, err, ErrSwapchain)
	assert.ErrorIs(t, err, fake.ErrInjected)
	assert.Equal(t, ChainDestroyed, f.e.Swapchain().State())

	acquires := f.d.Stats().Acquires
	var again error
	require.NotPanics(t, func() { again = f.e.Render() })
	assert.ErrorIs(t, again, ErrSwapchain)
	assert.Equal(t, acquires, f.d.Stats().Acquires)

	f.e.Destroy()
	assert.Empty(t, f.d.Live())
	assert.Empty(t, f.d.DoubleDestroys())
	assert.ErrorIs(t, f.e.Render(), errNotStarted)
}

func TestUniforms(t *testing.T) {
	f := started(t)
	require.NoError(t, f.e.Render())
	ch := f.e.Swapchain()
	for i, set := range ch.sets {
		u := ch.uniforms[i]
		assert.Same(t, u.Server, fake.Bound(set))
		assert.Equal(t, driver.MemDeviceLocal, fake.MemoryOf(u.Server))
		assert.NotZero(t, fake.UsageOf(u.Server)&driver.UUniform)
	}
	// The first frame renders to image 0.
	data := fake.Contents(ch.uniforms[0].Server)
	require.Len(t, data, 192)
	assert.Equal(t, fake.Contents(ch.uniforms[0].Client), data)
	assert.NotEqual(t, make([]byte, 192), data)
	// Other images are not written yet.
	assert.Equal(t, make([]byte, 192), fake.Contents(ch.uniforms[1].Server))
}

func TestRenderObjects(t *testing.T) {
	f := newFixture(t, fake.DefaultConfig(), nil)
	host := scene.Cube()
	host.Name = "host"
	host.HostVertices = true
	f.scene.Objects = append(f.scene.Objects, host, &scene.RenderObject{Name: "empty"})
	require.NoError(t, f.e.Startup(f.win))
	defer f.e.Destroy()

	require.Len(t, f.e.objects, 2)
	cube := f.e.objects[0]
	assert.Equal(t, f.scene.Objects[0].VertexBytes(), fake.Contents(cube.vertex.Server))
	assert.Equal(t, f.scene.Objects[0].IndexBytes(), fake.Contents(cube.index.Server))
	assert.Equal(t, driver.MemDeviceLocal, fake.MemoryOf(cube.vertex.Draw()))

	h := f.e.objects[1]
	assert.Nil(t, h.vertex.Server)
	assert.Same(t, h.vertex.Client, h.vertex.Draw())
	assert.NotZero(t, fake.UsageOf(h.vertex.Client)&driver.UVertexData)
	assert.Equal(t, host.VertexBytes(), fake.Contents(h.vertex.Client))

	require.NoError(t, f.e.Render())
	assert.Equal(t, 2, f.d.Stats().Draws)
	assert.Empty(t, f.d.Violations())
}

func TestPipelineState(t *testing.T) {
	f := started(t)
	gs := f.d.GraphState()
	assert.Equal(t, 4, gs.Samples.Samples)
	assert.InDelta(t, 0.2, gs.Samples.MinShading, 1e-6)
	assert.Equal(t, driver.TTriangle, gs.Topology)
	assert.Equal(t, driver.RasterState{Cull: driver.CBack, Clockwise: false}, gs.Raster)
	assert.Equal(t, driver.DSState{DepthTest: true, DepthWrite: true, DepthCmp: driver.CLess}, gs.DS)
	assert.True(t, gs.Blend.Enable)
	assert.Equal(t, driver.BSrcAlpha, gs.Blend.SrcFacRGB)
	assert.Equal(t, driver.BInvSrcAlpha, gs.Blend.DstFacRGB)
	require.Len(t, gs.Input, 1)
	assert.Equal(t, 24, gs.Input[0].Stride)
	assert.Len(t, gs.Input[0].Attrs, 2)

	assert.Equal(t, driver.D32Float, f.e.Context().DepthFormat())
	assert.Equal(t, 4, f.e.Context().Samples())
	sp := f.d.SwapchainParams()[0]
	assert.Equal(t, driver.RGBA8SRGB, sp.Format.Format)
	assert.Equal(t, driver.PresentMailbox, sp.PresentMode)
	assert.Equal(t, 3, sp.Images)
	assert.Equal(t, driver.Extent{Width: 800, Height: 600}, sp.Extent)

	// Shader modules do not outlive the pipeline creation.
	assert.Equal(t, 2, f.d.Created("shader"))
	assert.Equal(t, 0, f.d.LiveKind("shader"))
}

func TestNoSampleRateShading(t *testing.T) {
	fc := fake.DefaultConfig()
	fc.Adapters[0].Features.SampleRateShading = false
	f := newFixture(t, fc, nil)
	require.NoError(t, f.e.Startup(f.win))
	defer f.e.Destroy()

	assert.False(t, f.d.DeviceParam().Features.SampleRateShading)
	gs := f.d.GraphState()
	assert.Equal(t, 4, gs.Samples.Samples)
	assert.Zero(t, gs.Samples.MinShading)
}
