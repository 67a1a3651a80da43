package nvcodec

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Encode is a loaded NVENC library. Sessions borrow it; Close fails while
// any session is open.
type Encode struct {
	*library
	fn encodeFuncs
}

// LoadEncode loads nvidia-encode, checks that the driver serves the API
// version this package targets and fetches the session function list.
func LoadEncode(opts ...Option) (*Encode, error) {
	o := newOptions(opts)
	lib, err := loadLibrary(libNvEncode, o.cfg)
	if err != nil {
		return nil, err
	}
	var entry encodeEntryPoints
	if err := lib.bind(entry.symbols()); err != nil {
		_ = lib.close()
		return nil, err
	}
	list, err := createInstance(&entry)
	if err != nil {
		_ = lib.close()
		return nil, &LoadError{Library: libNvEncode.String(), Err: err}
	}

	e := &Encode{
		library: newLibrary(SubsystemEncoder, o.log, lib),
		fn:      list.funcs(),
	}
	markAvailable(SubsystemEncoder)
	e.log.WithField("path", lib.path).Debug("loaded NVENC")
	return e, nil
}

func createInstance(entry *encodeEntryPoints) (*encodeFunctionList, error) {
	var supported uint32
	if err := checkStatus(entry.GetMaxSupportedVersion(&supported)); err != nil {
		return nil, fmt.Errorf("NvEncodeAPIGetMaxSupportedVersion: %w", err)
	}
	// The driver reports major<<4 | minor.
	if want := uint32(nvencAPIMajor<<4 | nvencAPIMinor); supported < want {
		return nil, fmt.Errorf("%w: NVENC API %d.%d required, driver supports %d.%d",
			ErrDriverVersion, nvencAPIMajor, nvencAPIMinor, supported>>4, supported&0xf)
	}
	list := &encodeFunctionList{Version: functionListVersion}
	if err := checkStatus(entry.CreateInstance(list)); err != nil {
		return nil, fmt.Errorf("NvEncodeAPICreateInstance: %w", err)
	}
	return list, nil
}

// newEncode wraps an already populated function table.
func newEncode(fn encodeFuncs, log logrus.FieldLogger) *Encode {
	return &Encode{
		library: newLibrary(SubsystemEncoder, log),
		fn:      fn,
	}
}

// statusError wraps a failed NVENC status with the op name and, when the
// driver provides one, the session's last error string.
func (e *Encode) statusError(op string, encoder uintptr, status EncodeStatus) error {
	if status.Ok() {
		return nil
	}
	if encoder != 0 && e.fn.GetLastErrorString != nil {
		if detail := e.fn.GetLastErrorString(encoder); detail != "" {
			return fmt.Errorf("%s: %w (%s)", op, status, detail)
		}
	}
	return fmt.Errorf("%s: %w", op, status)
}
