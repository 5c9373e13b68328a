package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/bvzombies/internal/model"
)

// Key prefix for all front-end data
const keyPrefix = "bvz"

// browserKey returns the Redis HASH key holding one browser's slots
func browserKey(sid string) string {
	return fmt.Sprintf("%s:browser:%s", keyPrefix, sid)
}

// accountKey returns the Redis key for an Account
func accountKey(id model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> user id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// usernameIndexKey returns the Redis key for the username -> user id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, strings.ToLower(username))
}
