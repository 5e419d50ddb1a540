package model

import "github.com/mizuki-lab/nocturne/pkg/domain/types"

// Release identifies the rolling release record on the code host. The tag
// is a floating pointer: the record keeps its identity while the tag and
// the attached assets move forward.
type Release struct {
	Tag   types.TagName
	Title string
	Body  string
}

// Artifact is one platform's build output, staged on local disk before
// it is attached to the release record.
type Artifact struct {
	Platform types.Platform
	Name     string
	Path     string
}
