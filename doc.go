// Package nvcodec binds the NVIDIA Video Codec SDK and NPP at runtime with
// purego, without cgo.
//
// Key pieces include:
//   - Cuda: driver init, device enumeration, contexts, streams and device memory
//   - Encode: NVENC sessions and their codec, profile, preset and format queries
//   - Decode: NVDEC capability queries
//   - NPP: NV12 to packed RGB/BGR conversion on a stream
//
// # Ownership
//
//	Cuda -> Context -> Stream / DeviceMemory / EncodeSession
//	Encode -> EncodeSession
//
// A library cannot be closed while a context or session created through it
// is open (ErrLibraryInUse). Closing a Context closes everything still open
// on it first, newest first. Close methods on handles never return an
// error; a failing native destroy is logged through the logger passed with
// WithLogger.
//
// # Current context
//
// Calls that need the context current on the calling thread push it, run,
// and pop it again with the goroutine locked to its OS thread. Callers
// never see the current-context stack.
//
// # Native Libraries
//
// Libraries are looked up in the per-library override, NVCODEC_LIB_PATH,
// the executable's directory, the CUDA toolkit (CUDA_PATH or CUDA_HOME,
// NPP only) and finally by soname through the platform loader. See
// Config and LoadConfigFile.
package nvcodec
