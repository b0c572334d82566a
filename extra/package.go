package extra

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

type PackageInfo struct {
	Name    string
	Path    string
	Version struct {
		Code int
		Name string
	}
}

var (
	rePkgPath = regexp.MustCompile(`codePath=([^\s]+)`)
	reVerCode = regexp.MustCompile(`versionCode=(\d+)`)
	reVerName = regexp.MustCompile(`versionName=([^\s]+)`)

	ErrPackageNotExist = errors.New("package does not exist")
)

// StatPackage returns PackageInfo
// If package not found, err will be ErrPackageNotExist
func StatPackage(d Sheller, packageName string) (PackageInfo, error) {
	out, err := d.Shell("dumpsys", "package", packageName)
	if err != nil {
		return PackageInfo{}, errors.Wrap(err, "StatPackage")
	}
	return parsePackage(packageName, out)
}

func parsePackage(packageName string, out []byte) (PackageInfo, error) {
	var info PackageInfo
	info.Name = packageName

	matches := rePkgPath.FindSubmatch(out)
	if len(matches) == 0 {
		return PackageInfo{}, ErrPackageNotExist
	}
	info.Path = string(matches[1])

	matches = reVerCode.FindSubmatch(out)
	if len(matches) == 0 {
		return PackageInfo{}, ErrPackageNotExist
	}
	info.Version.Code, _ = strconv.Atoi(string(matches[1]))

	matches = reVerName.FindSubmatch(out)
	if len(matches) == 0 {
		return PackageInfo{}, ErrPackageNotExist
	}
	info.Version.Name = string(matches[1])

	return info, nil
}
