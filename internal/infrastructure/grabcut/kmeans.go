package grabcut

import "math/rand/v2"

func sqDist(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// kmeans раскладывает цвета на k кластеров (центры по k-means++) и возвращает метки.
// Если образцов меньше k, кластеров столько же, сколько образцов.
func kmeans(samples [][3]float64, k, iterations int, rng *rand.Rand) []int {
	labels := make([]int, len(samples))
	k = min(k, len(samples))
	if k <= 1 {
		return labels
	}

	centers := make([][3]float64, 0, k)
	centers = append(centers, samples[rng.IntN(len(samples))])
	dist := make([]float64, len(samples))
	for i, s := range samples {
		dist[i] = sqDist(s, centers[0])
	}
	for len(centers) < k {
		var total float64
		for _, d := range dist {
			total += d
		}
		next := rng.IntN(len(samples))
		if total > 0 {
			r := rng.Float64() * total
			for i, d := range dist {
				r -= d
				if r <= 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, samples[next])
		for i, s := range samples {
			dist[i] = min(dist[i], sqDist(s, samples[next]))
		}
	}

	sums := make([][3]float64, k)
	counts := make([]int, k)
	for it := 0; it < iterations; it++ {
		for i, s := range samples {
			best, bestD := 0, sqDist(s, centers[0])
			for c := 1; c < k; c++ {
				if d := sqDist(s, centers[c]); d < bestD {
					best, bestD = c, d
				}
			}
			labels[i] = best
		}

		clear(sums)
		clear(counts)
		for i, s := range samples {
			l := labels[i]
			counts[l]++
			for ch := 0; ch < 3; ch++ {
				sums[l][ch] += s[ch]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// пустой кластер получает самую далёкую от своего центра точку
				far, farD := 0, -1.0
				for i, s := range samples {
					if d := sqDist(s, centers[labels[i]]); d > farD {
						far, farD = i, d
					}
				}
				centers[c] = samples[far]
				continue
			}
			for ch := 0; ch < 3; ch++ {
				centers[c][ch] = sums[c][ch] / float64(counts[c])
			}
		}
	}
	return labels
}
