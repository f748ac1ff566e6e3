package database

type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	ProfileImage string `db:"profile_image"` // filename inside the upload folder, empty when unset
}

// HasProfileImage reports whether a profile image is referenced.
func (u *User) HasProfileImage() bool {
	return u != nil && u.ProfileImage != ""
}
