package model

import "math/rand/v2"

// Shuffler источник случайных перестановок. *rand.Rand из math/rand/v2 удовлетворяет интерфейсу.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type entropyShuffler struct{}

func (entropyShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Entropy возвращает несеянный источник. Он безопасен для конкурентного использования
// и не зависит ни от какого общего зерна.
func Entropy() Shuffler {
	return entropyShuffler{}
}

// Seeded возвращает детерминированный источник для заданного зерна.
// Источник не потокобезопасен и предназначен для одной операции.
func Seeded(seed int64) Shuffler {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}
