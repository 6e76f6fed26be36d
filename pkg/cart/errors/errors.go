package errors

import "errors"

var (
	// Descriptor errors 📄
	ErrDescriptorMissing    = errors.New("❌ descriptor file not found")
	ErrDescriptorUnreadable = errors.New("❌ descriptor file unreadable")
	ErrDescriptorSyntax     = errors.New("❌ descriptor is not valid JSON")
	ErrDescriptorMalformed  = errors.New("❌ descriptor structure is malformed")
	ErrDescriptorNotFound   = errors.New("❌ no descriptor in project root")
	ErrDescriptorAmbiguous  = errors.New("❌ multiple descriptors in project root")
	ErrNotADirectory        = errors.New("❌ not a directory")

	// Scaffold errors 🏗️
	ErrAlreadyExists   = errors.New("❌ project directory already exists")
	ErrUnknownTemplate = errors.New("❌ unknown template")
	ErrInvalidOptions  = errors.New("❌ invalid project options")
	ErrFilesystem      = errors.New("❌ filesystem error")

	// Manifest sync errors 🔄
	ErrManifestRead   = errors.New("❌ manifest read failed")
	ErrManifestParse  = errors.New("❌ manifest parse failed")
	ErrManifestEncode = errors.New("❌ manifest serialization failed")
	ErrManifestWrite  = errors.New("❌ manifest write failed")
)
