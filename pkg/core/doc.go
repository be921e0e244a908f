/*
Package core synchronizes installed packages into a revisioned object store.

Content synchronization uploads the static trees ("www" and "admin") of a package
as attachments of a container object, threading the revision token returned by each write into the next one.

Upgrades apply the descriptor of a package to its stored object and merge the declared
settings into every instance of the package bound to the current host.
*/
package core
