package nvcodec

import (
	"github.com/ebitengine/purego"
)

// NVENC API version this package is built against.
const (
	nvencAPIMajor   = 12
	nvencAPIMinor   = 1
	nvencAPIVersion = uint32(nvencAPIMajor | nvencAPIMinor<<24)
)

// structVersion mirrors NVENCAPI_STRUCT_VERSION.
func structVersion(v uint32) uint32 {
	return nvencAPIVersion | v<<16 | 0x7<<28
}

var (
	openSessionParamsVersion = structVersion(1)
	functionListVersion      = structVersion(2)
	capsParamVersion         = structVersion(1)
)

const deviceTypeCUDA uint32 = 1

// openSessionParams is NV_ENC_OPEN_ENCODE_SESSION_EX_PARAMS.
type openSessionParams struct {
	Version    uint32
	DeviceType uint32
	Device     uintptr
	Reserved   uintptr
	APIVersion uint32
	Reserved1  [253]uint32
	Reserved2  [64]uintptr
}

// capsParam is NV_ENC_CAPS_PARAM.
type capsParam struct {
	Version     uint32
	CapsToQuery EncodeCap
	Reserved    [62]uint32
}

// encodeFunctionList is NV_ENCODE_API_FUNCTION_LIST as filled in by
// NvEncodeAPICreateInstance. Only the entries this package calls are
// converted into Go funcs; the rest keep the layout.
type encodeFunctionList struct {
	Version  uint32
	reserved uint32

	OpenEncodeSession         uintptr
	GetEncodeGUIDCount        uintptr
	GetEncodeProfileGUIDCount uintptr
	GetEncodeProfileGUIDs     uintptr
	GetEncodeGUIDs            uintptr
	GetInputFormatCount       uintptr
	GetInputFormats           uintptr
	GetEncodeCaps             uintptr
	GetEncodePresetCount      uintptr
	GetEncodePresetGUIDs      uintptr
	GetEncodePresetConfig     uintptr
	InitializeEncoder         uintptr
	CreateInputBuffer         uintptr
	DestroyInputBuffer        uintptr
	CreateBitstreamBuffer     uintptr
	DestroyBitstreamBuffer    uintptr
	EncodePicture             uintptr
	LockBitstream             uintptr
	UnlockBitstream           uintptr
	LockInputBuffer           uintptr
	UnlockInputBuffer         uintptr
	GetEncodeStats            uintptr
	GetSequenceParams         uintptr
	RegisterAsyncEvent        uintptr
	UnregisterAsyncEvent      uintptr
	MapInputResource          uintptr
	UnmapInputResource        uintptr
	DestroyEncoder            uintptr
	InvalidateRefFrames       uintptr
	OpenEncodeSessionEx       uintptr
	RegisterResource          uintptr
	UnregisterResource        uintptr
	ReconfigureEncoder        uintptr
	reserved1                 uintptr
	CreateMVBuffer            uintptr
	DestroyMVBuffer           uintptr
	RunMotionEstimationOnly   uintptr
	GetLastErrorString        uintptr
	SetIOCudaStreams          uintptr
	GetEncodePresetConfigEx   uintptr
	GetSequenceParamEx        uintptr
	RestoreEncoderState       uintptr
	LookaheadPicture          uintptr
	reserved2                 [275]uintptr
}

// encodeFuncs is the NVENC session function table. GUIDs are taken by
// value; the platform binders lower them to the native calling convention.
type encodeFuncs struct {
	OpenEncodeSessionEx func(params *openSessionParams, encoder *uintptr) EncodeStatus
	DestroyEncoder      func(encoder uintptr) EncodeStatus
	GetLastErrorString  func(encoder uintptr) string

	GetEncodeGUIDCount func(encoder uintptr, count *uint32) EncodeStatus
	GetEncodeGUIDs     func(encoder uintptr, guids *GUID, size uint32, count *uint32) EncodeStatus

	GetEncodeProfileGUIDCount func(encoder uintptr, codec GUID, count *uint32) EncodeStatus
	GetEncodeProfileGUIDs     func(encoder uintptr, codec GUID, guids *GUID, size uint32, count *uint32) EncodeStatus
	GetEncodePresetCount      func(encoder uintptr, codec GUID, count *uint32) EncodeStatus
	GetEncodePresetGUIDs      func(encoder uintptr, codec GUID, guids *GUID, size uint32, count *uint32) EncodeStatus
	GetInputFormatCount       func(encoder uintptr, codec GUID, count *uint32) EncodeStatus
	GetInputFormats           func(encoder uintptr, codec GUID, formats *BufferFormat, size uint32, count *uint32) EncodeStatus
	GetEncodeCaps             func(encoder uintptr, codec GUID, params *capsParam, value *int32) EncodeStatus
}

// funcs converts every non-null entry the session uses into a Go func.
// Null entries stay nil and surface as ErrNotSupported.
func (l *encodeFunctionList) funcs() encodeFuncs {
	var f encodeFuncs
	register(&f.OpenEncodeSessionEx, l.OpenEncodeSessionEx)
	register(&f.DestroyEncoder, l.DestroyEncoder)
	register(&f.GetLastErrorString, l.GetLastErrorString)
	register(&f.GetEncodeGUIDCount, l.GetEncodeGUIDCount)
	register(&f.GetEncodeGUIDs, l.GetEncodeGUIDs)

	if l.GetEncodeProfileGUIDCount != 0 {
		f.GetEncodeProfileGUIDCount = bindGUIDCount(l.GetEncodeProfileGUIDCount)
	}
	if l.GetEncodeProfileGUIDs != 0 {
		f.GetEncodeProfileGUIDs = bindGUIDList[GUID](l.GetEncodeProfileGUIDs)
	}
	if l.GetEncodePresetCount != 0 {
		f.GetEncodePresetCount = bindGUIDCount(l.GetEncodePresetCount)
	}
	if l.GetEncodePresetGUIDs != 0 {
		f.GetEncodePresetGUIDs = bindGUIDList[GUID](l.GetEncodePresetGUIDs)
	}
	if l.GetInputFormatCount != 0 {
		f.GetInputFormatCount = bindGUIDCount(l.GetInputFormatCount)
	}
	if l.GetInputFormats != 0 {
		f.GetInputFormats = bindGUIDList[BufferFormat](l.GetInputFormats)
	}
	if l.GetEncodeCaps != 0 {
		f.GetEncodeCaps = bindGUIDCaps(l.GetEncodeCaps)
	}
	return f
}

// register binds fn to addr unless addr is null.
func register(fn any, addr uintptr) {
	if addr != 0 {
		purego.RegisterFunc(fn, addr)
	}
}

// encodeEntryPoints are the two functions nvidia-encode exports directly.
type encodeEntryPoints struct {
	GetMaxSupportedVersion func(version *uint32) EncodeStatus
	CreateInstance         func(list *encodeFunctionList) EncodeStatus
}

func (e *encodeEntryPoints) symbols() []symbol {
	return []symbol{
		{name: "NvEncodeAPIGetMaxSupportedVersion", fn: &e.GetMaxSupportedVersion},
		{name: "NvEncodeAPICreateInstance", fn: &e.CreateInstance},
	}
}
