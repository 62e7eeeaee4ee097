package auth

import (
	"fmt"

	"pinlock/internal/models"
	pkgauth "pinlock/pkg/auth"
)

// Word lists for generating readable usernames (adjective + animal + digits).
var adjectives = []string{
	"happy", "brave", "calm", "wild", "swift", "gentle",
	"fierce", "clever", "wise", "proud", "humble", "bold", "quiet",
	"bright", "cool", "warm", "smooth", "sweet", "spicy", "lucky",
}

var animals = []string{
	"gorilla", "panda", "tiger", "lion", "eagle", "hawk", "wolf", "bear",
	"fox", "deer", "owl", "raven", "dolphin", "whale", "shark", "otter",
	"koala", "lemur", "lynx", "badger", "falcon", "moose", "bison", "cobra",
	"penguin", "seal", "walrus", "turtle", "gecko", "iguana", "heron", "crane",
}

// GenerateUsername produces a human-readable username like "swiftpanda742".
// The trailing number is 2-3 digits for uniqueness across resets.
func GenerateUsername() (string, error) {
	adjective, err := randomWord(adjectives)
	if err != nil {
		return "", err
	}
	animal, err := randomWord(animals)
	if err != nil {
		return "", err
	}
	number, err := randomRange(10, 999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%d", adjective, animal, number), nil
}

// GenerateCredentials produces the first-run credential pair: a readable
// username and a high-entropy password. The caller is responsible for hashing
// the password before anything touches disk.
func GenerateCredentials() (*models.Credentials, error) {
	username, err := GenerateUsername()
	if err != nil {
		return nil, fmt.Errorf("failed to generate username: %w", err)
	}
	password, err := pkgauth.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	return &models.Credentials{Username: username, Password: password}, nil
}

func randomWord(words []string) (string, error) {
	i, err := pkgauth.RandomInt(len(words))
	if err != nil {
		return "", err
	}
	return words[i], nil
}

func randomRange(min, max int) (int, error) {
	n, err := pkgauth.RandomInt(max - min + 1)
	if err != nil {
		return 0, err
	}
	return min + n, nil
}
