// Package datagen генерирует воспроизводимые синтетические данные для
// пяти связанных сущностей магазина и умеет подчищать их за собой.
// Вся генерация однопоточная: один *rand.Rand с фиксированным seed даёт
// одинаковую последовательность значений от запуска к запуску.
package datagen

import (
	"fmt"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Словари значений ──

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Lisa", "Daniel", "Nancy",
	"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
	"Steven", "Dorothy", "Paul", "Kimberly", "Andrew", "Emily", "Joshua", "Donna",
	"Kenneth", "Michelle", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
	"Timothy", "Deborah", "Ronald", "Stephanie", "Edward", "Rebecca", "Jason", "Sharon",
	"Jeffrey", "Laura", "Ryan", "Cynthia", "Jacob", "Kathleen", "Gary", "Amy",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill",
	"Flores", "Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell",
}

var emailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "protonmail.com",
	"icloud.com", "mail.com", "fastmail.com", "example.com", "test.com",
}

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	"consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum",
}

var productAdjectives = []string{
	"Ergonomic", "Rustic", "Intelligent", "Gorgeous", "Incredible", "Fantastic",
	"Practical", "Sleek", "Awesome", "Enormous", "Mediocre", "Synergistic",
	"Heavy Duty", "Lightweight", "Aerodynamic", "Durable",
}

var productMaterials = []string{
	"Steel", "Wooden", "Concrete", "Plastic", "Cotton", "Granite", "Rubber",
	"Leather", "Silk", "Wool", "Linen", "Marble", "Iron", "Bronze", "Copper", "Aluminum",
}

var productNouns = []string{
	"Chair", "Car", "Computer", "Gloves", "Pants", "Shirt", "Table", "Shoes",
	"Hat", "Plate", "Knife", "Bottle", "Coat", "Lamp", "Keyboard", "Bag",
	"Bench", "Clock", "Watch", "Wallet",
}

var streetSuffixes = []string{
	"Street", "Avenue", "Boulevard", "Lane", "Drive", "Court", "Place", "Way",
}

var cities = []string{
	"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton",
	"Fairview", "Salem", "Madison", "Georgetown", "Arlington", "Ashland",
}

var states = []string{
	"AL", "CA", "CO", "FL", "GA", "IL", "MA", "MI", "NY", "OH", "OR", "TX", "VA", "WA",
}

const skuAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Faker выдаёт правдоподобные значения полей из детерминированного
// источника случайности.
type Faker struct {
	rng *mrand.Rand
}

// NewFaker создаёт генератор значений с заданным seed.
func NewFaker(seed int64) *Faker {
	return &Faker{rng: mrand.New(mrand.NewSource(seed))}
}

func (f *Faker) pick(pool []string) string {
	return pool[f.rng.Intn(len(pool))]
}

// IntBetween возвращает равномерное целое из [min, max] включительно.
func (f *Faker) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + f.rng.Intn(max-min+1)
}

// Bool — честная монетка.
func (f *Faker) Bool() bool {
	return f.rng.Intn(2) == 0
}

func (f *Faker) FirstName() string { return f.pick(firstNames) }
func (f *Faker) LastName() string  { return f.pick(lastNames) }

// Username возвращает имя вида john_smith_4821.
func (f *Faker) Username() string {
	return fmt.Sprintf("%s_%s_%04d",
		strings.ToLower(f.FirstName()),
		strings.ToLower(f.LastName()),
		f.rng.Intn(10000),
	)
}

// Email возвращает адрес вида john.smith_482@gmail.com.
func (f *Faker) Email() string {
	return fmt.Sprintf("%s.%s_%03d@%s",
		strings.ToLower(f.FirstName()),
		strings.ToLower(f.LastName()),
		f.rng.Intn(1000),
		f.pick(emailDomains),
	)
}

// PhoneNumber возвращает номер вида (555) 123-4567.
func (f *Faker) PhoneNumber() string {
	return fmt.Sprintf("(%03d) %03d-%04d",
		f.IntBetween(200, 999),
		f.IntBetween(200, 999),
		f.rng.Intn(10000),
	)
}

// Birthday возвращает дату рождения для возраста в [minAge, maxAge].
func (f *Faker) Birthday(minAge, maxAge int) time.Time {
	now := time.Now().UTC()
	years := f.IntBetween(minAge, maxAge)
	days := f.rng.Intn(365)
	t := now.AddDate(-years, 0, -days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProductName возвращает название товара вида "Ergonomic Steel Chair".
func (f *Faker) ProductName() string {
	return f.pick(productAdjectives) + " " + f.pick(productMaterials) + " " + f.pick(productNouns)
}

// SKU возвращает ASIN-подобный код вида B07X2QZF1K.
func (f *Faker) SKU() string {
	b := make([]byte, 10)
	b[0] = 'B'
	b[1] = '0'
	for i := 2; i < len(b); i++ {
		b[i] = skuAlphabet[f.rng.Intn(len(skuAlphabet))]
	}
	return string(b)
}

// Digits возвращает строку из n случайных цифр.
func (f *Faker) Digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + f.rng.Intn(10))
	}
	return string(b)
}

// Sentence возвращает предложение из wordCount слов.
func (f *Faker) Sentence(wordCount int) string {
	words := make([]string, wordCount)
	for i := range words {
		words[i] = f.pick(loremWords)
	}
	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Paragraph возвращает абзац из sentenceCount предложений.
func (f *Faker) Paragraph(sentenceCount int) string {
	parts := make([]string, sentenceCount)
	for i := range parts {
		parts[i] = f.Sentence(f.IntBetween(5, 12))
	}
	return strings.Join(parts, " ")
}

// FullAddress возвращает полный адрес доставки.
func (f *Faker) FullAddress() string {
	return fmt.Sprintf("%d %s %s, %s, %s %05d",
		f.IntBetween(1, 9999),
		f.LastName(),
		f.pick(streetSuffixes),
		f.pick(cities),
		f.pick(states),
		f.IntBetween(10000, 99999),
	)
}

// PriceBetween возвращает цену из [min, max), округлённую до двух знаков
// по правилу half-up.
func (f *Faker) PriceBetween(min, max float64) decimal.Decimal {
	v := min + f.rng.Float64()*(max-min)
	return decimal.NewFromFloat(v).Round(2)
}

// DaysAgo возвращает момент в прошлом не дальше maxDays дней от текущего.
func (f *Faker) DaysAgo(maxDays int) time.Time {
	offset := time.Duration(f.rng.Intn(maxDays*24)) * time.Hour
	return time.Now().UTC().Add(-offset)
}
