package domain

import "golang.org/x/crypto/bcrypt"

// SetPassword hashes pwd with bcrypt and stores the hash on the user.
func (u *User) SetPassword(pwd string, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword returns nil when pwd matches the stored hash.
func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Ref returns the populated reference form of the user.
func (u User) Ref(withEmail bool) UserRef {
	ref := UserRef{ID: u.ID, Name: u.Name}
	if withEmail {
		ref.Email = u.Email
	}
	return ref
}
