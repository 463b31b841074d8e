package datagen

import (
	"errors"
	"fmt"
)

// ErrExhausted возвращается, когда пространство значений не позволяет
// выдать очередное уникальное значение за разумное число попыток.
var ErrExhausted = errors.New("datagen: unique value space exhausted")

// maxUniqueAttempts ограничивает цикл retry-until-unique: для реальных
// пространств (email, SKU, номера заказов) лимит недостижим, но он
// превращает патологический случай в явную ошибку вместо зависания.
const maxUniqueAttempts = 10000

// unique выдаёт значение gen(), отсутствующее в used, и добавляет его
// туда. Множество used мутируется.
func unique(used map[string]struct{}, gen func() string) (string, error) {
	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		candidate := gen()
		if _, ok := used[candidate]; ok {
			continue
		}
		used[candidate] = struct{}{}
		return candidate, nil
	}
	return "", fmt.Errorf("%w after %d attempts (%d values taken)", ErrExhausted, maxUniqueAttempts, len(used))
}
