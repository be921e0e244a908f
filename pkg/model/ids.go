package model

import (
	"strings"
)

const (
	// DescriptorFile is the name of the package descriptor, at the root of a package directory
	DescriptorFile = "io-package.json"

	// AdminPackage is the name of the package which never gets its www tree uploaded
	AdminPackage = "admin"

	// RangeEnd terminates a prefix range query (a code point sorting after any ID character)
	RangeEnd = "\u9999"

	adapterPrefix = "system.adapter."
	hostPrefix    = "system.host."
	adminSuffix   = ".admin"
	uploadSuffix  = ".upload"
	cliSuffix     = ".cli"

	wwwDir   = "www"
	adminDir = "admin"
)

// AdapterID yields the ID of the object describing an installed package
func AdapterID(name string) string {
	return adapterPrefix + name
}

// InstancesRange yields the keys bounding a range query over all instances of a package
func InstancesRange(name string) (string, string) {
	start := adapterPrefix + name + "."
	return start, start + RangeEnd
}

// InstanceID qualifies an instance reference such as "bar.0" into a full object ID.
// Fully qualified IDs are returned unchanged.
func InstanceID(ref string) string {
	if strings.HasPrefix(ref, adapterPrefix) {
		return ref
	}
	return adapterPrefix + ref
}

// InstanceSuffix yields the numeric suffix of an instance ID, e.g. "0" for "system.adapter.foo.0"
func InstanceSuffix(id string) string {
	return id[strings.LastIndex(id, ".")+1:]
}

// UploadStateID yields the ID of the upload progress indicator of a package
func UploadStateID(name string) string {
	return adapterPrefix + name + uploadSuffix
}

// ContainerID yields the ID of the container object holding the content of a package
func ContainerID(name string, admin bool) string {
	if admin {
		return name + adminSuffix
	}
	return name
}

// ContainerName yields the short name recorded on a container object, i.e. the last segment of its ID
func ContainerName(id string) string {
	return id[strings.LastIndex(id, ".")+1:]
}

// ContentType yields the type of content recorded on a container object
func ContentType(admin bool) string {
	if admin {
		return adminDir
	}
	return wwwDir
}

// TreeDir yields the local directory holding the content of a package, relative to the package directory
func TreeDir(admin bool) string {
	if admin {
		return adminDir
	}
	return wwwDir
}

// HostOrigin yields the origin stamped on objects written by the command line tooling of a host
func HostOrigin(hostname string) string {
	return hostPrefix + hostname + cliSuffix
}
