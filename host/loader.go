package host

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Oxyde-Labs/Oxyde/domain/errors"
)

// thirdPartyDir is the fixed subpath beneath the embedding application's
// plugin/binary directory where the runtime library ships.
var thirdPartyDir = filepath.Join("Oxyde", "Binaries", "ThirdParty")

// libraryFileName maps a target OS to its runtime shared-object name.
func libraryFileName(goos string) (string, error) {
	switch goos {
	case "windows":
		return "oxyde.dll", nil
	case "darwin":
		return "liboxyde.dylib", nil
	case "linux", "freebsd", "netbsd":
		return "liboxyde.so", nil
	default:
		return "", &errors.PlatformError{OS: goos, Arch: runtime.GOARCH}
	}
}

// platformSubdir maps a target OS to its architecture subfolder under the
// ThirdParty directory.
func platformSubdir(goos string) string {
	switch goos {
	case "windows":
		return "Win64"
	case "darwin":
		return "Mac"
	default:
		return "Linux"
	}
}

// resolveLibraryPath computes the absolute path of the runtime library.
// An explicit WithLibraryPath override wins; otherwise the path is
// <baseDir>/Oxyde/Binaries/ThirdParty/<platform>/<library file>, with
// baseDir defaulting to the running executable's directory.
func (e *Engine) resolveLibraryPath() (string, error) {
	if e.libraryPath != "" {
		return filepath.Abs(e.libraryPath)
	}

	name, err := libraryFileName(runtime.GOOS)
	if err != nil {
		return "", err
	}

	base := e.baseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", &errors.LoadError{Err: err}
		}
		base = filepath.Dir(exe)
	}

	return filepath.Abs(filepath.Join(base, thirdPartyDir, platformSubdir(runtime.GOOS), name))
}
