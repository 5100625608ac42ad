// Package quotes carries the static motivational quote list the bot
// appends to progress replies.
package quotes

import (
	"fmt"
	"math/rand"
)

type Quote struct {
	Text   string
	Author string
}

var quotes = []Quote{
	{"The obstacle is the way.", "Marcus Aurelius"},
	{"You have power over your mind - not outside events. Realize this, and you will find strength.", "Marcus Aurelius"},
	{"Waste no more time arguing about what a good man should be. Be one.", "Marcus Aurelius"},
	{"It is not that we have a short time to live, but that we waste a lot of it.", "Seneca"},
	{"Luck is what happens when preparation meets opportunity.", "Seneca"},
	{"Difficulties strengthen the mind, as labor does the body.", "Seneca"},
	{"First say to yourself what you would be; and then do what you have to do.", "Epictetus"},
	{"No man is free who is not master of himself.", "Epictetus"},
	{"It's not what happens to you, but how you react to it that matters.", "Epictetus"},
	{"We suffer more often in imagination than in reality.", "Seneca"},
	{"If it is not right, do not do it; if it is not true, do not say it.", "Marcus Aurelius"},
	{"How long are you going to wait before you demand the best for yourself?", "Epictetus"},
}

// Random returns one quote formatted for a reply.
func Random() string {
	q := quotes[rand.Intn(len(quotes))]
	return fmt.Sprintf("\"%s\" - %s", q.Text, q.Author)
}

// All returns the full list, mainly for tests.
func All() []Quote {
	return quotes
}
