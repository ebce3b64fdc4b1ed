package models

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
	RoleConsultant UserRole = "consultant"
)

// AdminRoles is the allow-list for back-office endpoints.
var AdminRoles = []UserRole{RoleAdmin, RoleSuperAdmin}

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin, RoleConsultant:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// MediaKind names a class of uploaded media and its directory under the media root.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

func (k MediaKind) Valid() bool {
	return k == MediaVideo || k == MediaImage
}

// Dir is the path segment used both on disk and in public URLs.
func (k MediaKind) Dir() string {
	switch k {
	case MediaVideo:
		return "videos"
	case MediaImage:
		return "images"
	}
	return ""
}

// MediaKindFromDir is the inverse of Dir.
func MediaKindFromDir(dir string) (MediaKind, bool) {
	switch dir {
	case "videos":
		return MediaVideo, true
	case "images":
		return MediaImage, true
	}
	return "", false
}
