package nvcodec

import "fmt"

// EncodeStatus is an NVENCSTATUS returned by the NVENC API.
type EncodeStatus int32

// Values from nvEncodeAPI.h.
const (
	EncodeSuccess                   EncodeStatus = 0
	EncodeErrNoEncodeDevice         EncodeStatus = 1
	EncodeErrUnsupportedDevice      EncodeStatus = 2
	EncodeErrInvalidEncoderDevice   EncodeStatus = 3
	EncodeErrInvalidDevice          EncodeStatus = 4
	EncodeErrDeviceNotExist         EncodeStatus = 5
	EncodeErrInvalidPtr             EncodeStatus = 6
	EncodeErrInvalidEvent           EncodeStatus = 7
	EncodeErrInvalidParam           EncodeStatus = 8
	EncodeErrInvalidCall            EncodeStatus = 9
	EncodeErrOutOfMemory            EncodeStatus = 10
	EncodeErrEncoderNotInitialized  EncodeStatus = 11
	EncodeErrUnsupportedParam       EncodeStatus = 12
	EncodeErrLockBusy               EncodeStatus = 13
	EncodeErrNotEnoughBuffer        EncodeStatus = 14
	EncodeErrInvalidVersion         EncodeStatus = 15
	EncodeErrMapFailed              EncodeStatus = 16
	EncodeErrNeedMoreInput          EncodeStatus = 17
	EncodeErrEncoderBusy            EncodeStatus = 18
	EncodeErrEventNotRegistered     EncodeStatus = 19
	EncodeErrGeneric                EncodeStatus = 20
	EncodeErrIncompatibleClientKey  EncodeStatus = 21
	EncodeErrUnimplemented          EncodeStatus = 22
	EncodeErrResourceRegisterFailed EncodeStatus = 23
	EncodeErrResourceNotRegistered  EncodeStatus = 24
	EncodeErrResourceNotMapped      EncodeStatus = 25
	EncodeErrNeedMoreOutput         EncodeStatus = 26
)

var encodeStatusNames = [...]string{
	EncodeSuccess:                   "NV_ENC_SUCCESS",
	EncodeErrNoEncodeDevice:         "NV_ENC_ERR_NO_ENCODE_DEVICE",
	EncodeErrUnsupportedDevice:      "NV_ENC_ERR_UNSUPPORTED_DEVICE",
	EncodeErrInvalidEncoderDevice:   "NV_ENC_ERR_INVALID_ENCODERDEVICE",
	EncodeErrInvalidDevice:          "NV_ENC_ERR_INVALID_DEVICE",
	EncodeErrDeviceNotExist:         "NV_ENC_ERR_DEVICE_NOT_EXIST",
	EncodeErrInvalidPtr:             "NV_ENC_ERR_INVALID_PTR",
	EncodeErrInvalidEvent:           "NV_ENC_ERR_INVALID_EVENT",
	EncodeErrInvalidParam:           "NV_ENC_ERR_INVALID_PARAM",
	EncodeErrInvalidCall:            "NV_ENC_ERR_INVALID_CALL",
	EncodeErrOutOfMemory:            "NV_ENC_ERR_OUT_OF_MEMORY",
	EncodeErrEncoderNotInitialized:  "NV_ENC_ERR_ENCODER_NOT_INITIALIZED",
	EncodeErrUnsupportedParam:       "NV_ENC_ERR_UNSUPPORTED_PARAM",
	EncodeErrLockBusy:               "NV_ENC_ERR_LOCK_BUSY",
	EncodeErrNotEnoughBuffer:        "NV_ENC_ERR_NOT_ENOUGH_BUFFER",
	EncodeErrInvalidVersion:         "NV_ENC_ERR_INVALID_VERSION",
	EncodeErrMapFailed:              "NV_ENC_ERR_MAP_FAILED",
	EncodeErrNeedMoreInput:          "NV_ENC_ERR_NEED_MORE_INPUT",
	EncodeErrEncoderBusy:            "NV_ENC_ERR_ENCODER_BUSY",
	EncodeErrEventNotRegistered:     "NV_ENC_ERR_EVENT_NOT_REGISTERD",
	EncodeErrGeneric:                "NV_ENC_ERR_GENERIC",
	EncodeErrIncompatibleClientKey:  "NV_ENC_ERR_INCOMPATIBLE_CLIENT_KEY",
	EncodeErrUnimplemented:          "NV_ENC_ERR_UNIMPLEMENTED",
	EncodeErrResourceRegisterFailed: "NV_ENC_ERR_RESOURCE_REGISTER_FAILED",
	EncodeErrResourceNotRegistered:  "NV_ENC_ERR_RESOURCE_NOT_REGISTERED",
	EncodeErrResourceNotMapped:      "NV_ENC_ERR_RESOURCE_NOT_MAPPED",
	EncodeErrNeedMoreOutput:         "NV_ENC_ERR_NEED_MORE_OUTPUT",
}

// Ok reports whether s is NV_ENC_SUCCESS.
func (s EncodeStatus) Ok() bool { return s == EncodeSuccess }

func (s EncodeStatus) String() string {
	if s >= 0 && int(s) < len(encodeStatusNames) {
		return encodeStatusNames[s]
	}
	return fmt.Sprintf("NVENCSTATUS(%d)", int32(s))
}

func (s EncodeStatus) Error() string { return "nvenc: " + s.String() }
