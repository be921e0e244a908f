// Package model describes the base objects manipulated by pkgsync.
//
// The object model is composed of:
//
//  Objects:
//    schemaless documents held by the object store, addressed by ID. Packages, their
//    provisioned instances, content containers and state definitions are all objects.
//
//  Containers:
//    objects of type "meta" which represent the content root of a package (or of its
//    admin variant). They hold no content themselves: files are stored as attachments.
//
//  States:
//    runtime values held by the state store, e.g. the upload progress indicator of a package.
//
//  Descriptors:
//    the declared schema of a package (io-package.json), used as the source of truth
//    during upgrades.
package model
