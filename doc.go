/*
Package pkgsync provides CLI tooling to synchronize installed packages with an object store.

An installed package ships static content trees (www and admin) and a descriptor (io-package.json).

pkgsync uploads the content trees as attachments of container objects, keeping a progress
indicator up to date, erasing content declared as obsolete and restarting the instances
which depend on this content.

Upgrades apply the package descriptor to the stored package object, and merge the declared
settings into every instance bound to this host, without overwriting operator customizations.

The CLI is located in cmd/pkgsync. The synchronization engine is located in pkg/core.
*/
package pkgsync
