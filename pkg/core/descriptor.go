package core

import (
	"path/filepath"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/spf13/afero"
)

// Locator resolves the local directory of an installed package
type Locator interface {
	PackageDir(name string) string
}

// DirLocator finds packages as "<Root>/<Prefix>.<name>"
type DirLocator struct {
	Root   string
	Prefix string
}

// PackageDir of some package
func (d DirLocator) PackageDir(name string) string {
	return filepath.Join(d.Root, d.Prefix+"."+name)
}

// Descriptor loads the descriptor of a package.
//
// Successfully parsed descriptors are cached: the same instance is returned for the lifetime of the Uploader.
// Callers must not mutate it.
func (u *Uploader) Descriptor(name string) (*model.PackageDescriptor, error) {
	if desc, ok := u.descriptors.Get(name); ok {
		return desc, nil
	}

	location := filepath.Join(u.locator.PackageDir(name), model.DescriptorFile)
	data, err := afero.ReadFile(u.fs, location)
	if err != nil {
		return nil, status.ErrDescriptor.Wrap(err)
	}
	desc, err := model.ParseDescriptor(data)
	if err != nil {
		return nil, status.ErrDescriptor.Wrap(err)
	}

	u.descriptors.Add(name, desc)
	return desc, nil
}

// optionalDescriptor yields the descriptor of a package, or nil when it cannot be loaded:
// content uploads then proceed with all flags unset.
func (u *Uploader) optionalDescriptor(name string) *model.PackageDescriptor {
	desc, err := u.Descriptor(name)
	if err != nil {
		u.l.Warn("package descriptor unavailable", logPackage(name), logError(err))
		return nil
	}
	return desc
}
