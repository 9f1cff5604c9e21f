// Package platform provides the filesystem operations behind file
// creation: atomic writes through renameio, existence checks and
// permission changes. On Windows, permission changes are a no-op because
// permission bits are not supported.
package platform
