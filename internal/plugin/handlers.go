package plugin

import (
	"litecamera/internal/channel"
	"litecamera/internal/text"
)

// handlerFunc はメソッド1つ分の処理
// 応答は必ずrに1回送る
type handlerFunc func(p *Plugin, args channel.Value, r *result)

func defaultHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"getPlatformVersion": handleGetPlatformVersion,
		"getDeviceList":      handleGetDeviceList,
		"saveJpeg":           handleSaveJpeg,
		"open":               handleOpen,
		"listMediaTypes":     handleListMediaTypes,
		"setResolution":      handleSetResolution,
		"captureFrame":       handleCaptureFrame,
		"release":            handleRelease,
		"getWidth":           handleGetWidth,
		"getHeight":          handleGetHeight,
	}
}

// intArg は整数の引数をintとして取り出す
// intに収まらない値は不正な引数として扱う
func intArg(v channel.Value) (int, bool) {
	n, ok := v.AsInt()
	if !ok || int64(int(n)) != n {
		return 0, false
	}
	return int(n), true
}

func handleGetPlatformVersion(p *Plugin, _ channel.Value, r *result) {
	r.success(channel.String(text.Normalize(p.version())))
}

func handleGetDeviceList(p *Plugin, _ channel.Value, r *result) {
	names := make([]string, 0)
	if p.devices != nil {
		for _, device := range p.devices.ListCaptureDevices() {
			names = append(names, device.Name)
		}
	}
	r.success(channel.Strings(text.NormalizeAll(names)))
}

// saveJpeg: [filename, width, height, data]
func handleSaveJpeg(p *Plugin, args channel.Value, r *result) {
	list, ok := args.AsList()
	if !ok || len(list) != 4 {
		r.fail(CodeInvalidArguments, "Expected a list with 4 elements")
		return
	}

	filename, ok1 := list[0].AsString()
	width, ok2 := intArg(list[1])
	height, ok3 := intArg(list[2])
	data, ok4 := list[3].AsBytes()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		r.fail(CodeInvalidArguments, "Arguments have incorrect types")
		return
	}

	// 保存結果は応答に反映しない
	if err := p.saveJPEG(data, width, height, filename); err != nil {
		p.logger.Warn("JPEGの保存に失敗しました", "path", filename, "error", err)
	}
	r.success(channel.Null())
}

// open: [index]
func handleOpen(p *Plugin, args channel.Value, r *result) {
	first, ok := args.Index(0)
	if !ok {
		r.fail(CodeInvalidArguments, "Expected camera index")
		return
	}
	index, ok := intArg(first)
	if !ok {
		r.fail(CodeInvalidArguments, "Expected camera index")
		return
	}
	r.success(channel.Bool(p.camera.Open(index)))
}

func handleListMediaTypes(p *Plugin, _ channel.Value, r *result) {
	types := p.camera.ListSupportedMediaTypes()
	items := make([]channel.Value, 0, len(types))
	for _, mt := range types {
		items = append(items, channel.MapValue(channel.NewMap().
			Set("width", channel.Int(int64(mt.Width))).
			Set("height", channel.Int(int64(mt.Height))).
			Set("format", channel.String(text.Normalize(mt.Format)))))
	}
	r.success(channel.List(items...))
}

// setResolution: {width, height}
func handleSetResolution(p *Plugin, args channel.Value, r *result) {
	widthValue, ok1 := args.Lookup("width")
	heightValue, ok2 := args.Lookup("height")
	width, ok3 := intArg(widthValue)
	height, ok4 := intArg(heightValue)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		r.fail(CodeInvalidArguments, "Expected width and height")
		return
	}
	r.success(channel.Bool(p.camera.SetResolution(width, height)))
}

func handleCaptureFrame(p *Plugin, _ channel.Value, r *result) {
	frame := p.camera.CaptureFrame()
	defer frame.Release()

	if !frame.HasData() {
		r.fail(CodeCaptureFailed, "No frame data available")
		return
	}

	data := append([]byte(nil), frame.Data...)
	r.success(channel.MapValue(channel.NewMap().
		Set("width", channel.Int(int64(frame.Width))).
		Set("height", channel.Int(int64(frame.Height))).
		Set("data", channel.Bytes(data))))
}

func handleRelease(p *Plugin, _ channel.Value, r *result) {
	p.camera.Release()
	r.success(channel.Null())
}

func handleGetWidth(p *Plugin, _ channel.Value, r *result) {
	r.success(channel.Int(int64(p.camera.FrameWidth())))
}

func handleGetHeight(p *Plugin, _ channel.Value, r *result) {
	r.success(channel.Int(int64(p.camera.FrameHeight())))
}
