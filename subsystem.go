package nvcodec

import (
	"runtime"
	"sync/atomic"
)

// Subsystem identifies one of the vendor libraries this package binds.
type Subsystem uint8

const (
	SubsystemDriver  Subsystem = iota // CUDA driver (device, context, stream)
	SubsystemDecoder                  // NVDEC / cuvid
	SubsystemEncoder                  // NVENC
	SubsystemImage                    // NPP colour conversion
	subsystemCount
)

// libraryID identifies a single shared library. NPP is split in two.
type libraryID uint8

const (
	libCuda libraryID = iota
	libNvcuvid
	libNvEncode
	libNppc
	libNppicc
	libraryCount
)

// libraryMeta contains the static names a library is found under.
type libraryMeta struct {
	Name    string
	Unix    []string // sonames, most specific first
	Windows []string
	Toolkit bool // ships with the CUDA toolkit rather than the driver
}

// Static metadata table - indexed by libraryID.
var libraryInfo = [libraryCount]libraryMeta{
	libCuda:     {"cuda", []string{"libcuda.so.1", "libcuda.so"}, []string{"nvcuda.dll"}, false},
	libNvcuvid:  {"nvcuvid", []string{"libnvcuvid.so.1", "libnvcuvid.so"}, []string{"nvcuvid.dll"}, false},
	libNvEncode: {"nvidia-encode", []string{"libnvidia-encode.so.1", "libnvidia-encode.so"}, []string{"nvEncodeAPI64.dll", "nvEncodeAPI.dll"}, false},
	libNppc:     {"nppc", []string{"libnppc.so.12", "libnppc.so.11", "libnppc.so"}, []string{"nppc64_12.dll", "nppc64_11.dll"}, true},
	libNppicc:   {"nppicc", []string{"libnppicc.so.12", "libnppicc.so.11", "libnppicc.so"}, []string{"nppicc64_12.dll", "nppicc64_11.dll"}, true},
}

var subsystemInfo = [subsystemCount]struct {
	Name      string
	Libraries []libraryID
}{
	SubsystemDriver:  {"driver", []libraryID{libCuda}},
	SubsystemDecoder: {"decoder", []libraryID{libNvcuvid}},
	SubsystemEncoder: {"encoder", []libraryID{libNvEncode}},
	SubsystemImage:   {"image", []libraryID{libNppc, libNppicc}},
}

// Runtime availability - set when a loader succeeds or a probe finds the
// libraries.
var subsystemAvailable [subsystemCount]atomic.Bool

func (id libraryID) String() string {
	if id >= libraryCount {
		return "unknown"
	}
	return libraryInfo[id].Name
}

func (id libraryID) filenames() []string {
	if runtime.GOOS == "windows" {
		return libraryInfo[id].Windows
	}
	return libraryInfo[id].Unix
}

// String returns the subsystem name.
func (s Subsystem) String() string {
	if s >= subsystemCount {
		return "unknown"
	}
	return subsystemInfo[s].Name
}

// Libraries returns the names of the shared libraries s needs.
func (s Subsystem) Libraries() []string {
	if s >= subsystemCount {
		return nil
	}
	names := make([]string, 0, len(subsystemInfo[s].Libraries))
	for _, id := range subsystemInfo[s].Libraries {
		names = append(names, id.String())
	}
	return names
}

// Available reports whether every library of s can be opened. A positive
// answer is cached; symbols are not resolved.
func (s Subsystem) Available(opts ...Option) bool {
	if s >= subsystemCount {
		return false
	}
	if subsystemAvailable[s].Load() {
		return true
	}
	o := newOptions(opts)
	for _, id := range subsystemInfo[s].Libraries {
		lib, err := loadLibrary(id, o.cfg)
		if err != nil {
			return false
		}
		_ = lib.close()
	}
	subsystemAvailable[s].Store(true)
	return true
}

func markAvailable(s Subsystem) {
	subsystemAvailable[s].Store(true)
}
