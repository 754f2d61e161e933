package archive

import "errors"

var (
	// ErrContainerPathRequired indicates an empty container path.
	ErrContainerPathRequired = errors.New("container path is required")

	// ErrAppendFailed indicates the file could not be appended to the
	// container. The source file is untouched.
	ErrAppendFailed = errors.New("archive append failed")

	// ErrDeleteFailed indicates the source file could not be deleted after a
	// successful append. The file is durably archived but still on disk.
	ErrDeleteFailed = errors.New("source delete after archive failed")
)
