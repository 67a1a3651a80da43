package nvcodec

import "fmt"

// NppStatus is an NppStatus returned by NPP. Negative values are errors,
// positive values are warnings; only NPP_SUCCESS counts as success.
type NppStatus int32

// Values from nppdefs.h.
const (
	NppSuccess                   NppStatus = 0
	NppNotSupportedModeError     NppStatus = -9999
	NppInvalidHostPointerError   NppStatus = -1032
	NppInvalidDevicePointerError NppStatus = -1031
	NppCudaKernelExecutionError  NppStatus = -1000
	NppStepError                 NppStatus = -14
	NppMemoryAllocationErr       NppStatus = -12
	NppNullPointerError          NppStatus = -8
	NppRangeError                NppStatus = -7
	NppSizeError                 NppStatus = -6
	NppBadArgumentError          NppStatus = -5
	NppNoMemoryError             NppStatus = -4
	NppNotImplementedError       NppStatus = -3
	NppError                     NppStatus = -2
	NppErrorReserved             NppStatus = -1
	NppNoOperationWarning        NppStatus = 1
)

var nppStatusNames = map[NppStatus]string{
	NppSuccess:                   "NPP_SUCCESS",
	NppNotSupportedModeError:     "NPP_NOT_SUPPORTED_MODE_ERROR",
	NppInvalidHostPointerError:   "NPP_INVALID_HOST_POINTER_ERROR",
	NppInvalidDevicePointerError: "NPP_INVALID_DEVICE_POINTER_ERROR",
	NppCudaKernelExecutionError:  "NPP_CUDA_KERNEL_EXECUTION_ERROR",
	NppStepError:                 "NPP_STEP_ERROR",
	NppMemoryAllocationErr:       "NPP_MEMORY_ALLOCATION_ERR",
	NppNullPointerError:          "NPP_NULL_POINTER_ERROR",
	NppRangeError:                "NPP_RANGE_ERROR",
	NppSizeError:                 "NPP_SIZE_ERROR",
	NppBadArgumentError:          "NPP_BAD_ARGUMENT_ERROR",
	NppNoMemoryError:             "NPP_NO_MEMORY_ERROR",
	NppNotImplementedError:       "NPP_NOT_IMPLEMENTED_ERROR",
	NppError:                     "NPP_ERROR",
	NppErrorReserved:             "NPP_ERROR_RESERVED",
	NppNoOperationWarning:        "NPP_NO_OPERATION_WARNING",
}

// Ok reports whether s is NPP_SUCCESS.
func (s NppStatus) Ok() bool { return s == NppSuccess }

func (s NppStatus) String() string {
	if name, ok := nppStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("NppStatus(%d)", int32(s))
}

func (s NppStatus) Error() string { return "npp: " + s.String() }
