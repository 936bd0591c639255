package mockserver

import "hash/fnv"

type subgenre struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type genreResponse struct {
	Genre      string     `json:"genre"`
	Confidence float64    `json:"confidence"`
	Subgenres  []subgenre `json:"subgenres"`
}

var cannedGenres = []genreResponse{
	{"Electronic", 0.89, []subgenre{{"House", 0.72}, {"Techno", 0.65}, {"Ambient", 0.43}}},
	{"Rock", 0.84, []subgenre{{"Alternative", 0.70}, {"Indie", 0.58}, {"Hard Rock", 0.31}}},
	{"Jazz", 0.77, []subgenre{{"Smooth Jazz", 0.61}, {"Bebop", 0.47}, {"Fusion", 0.35}}},
	{"Hip-Hop", 0.91, []subgenre{{"Trap", 0.74}, {"Boom Bap", 0.52}, {"Lo-fi", 0.40}}},
	{"Classical", 0.86, []subgenre{{"Romantic", 0.66}, {"Baroque", 0.49}, {"Minimalism", 0.28}}},
	{"Pop", 0.82, []subgenre{{"Synth-pop", 0.69}, {"Dance-pop", 0.55}, {"Indie Pop", 0.37}}},
}

// classify picks a canned result from the upload content, so the same file
// always gets the same answer.
func classify(data []byte) genreResponse {
	h := fnv.New32a()
	h.Write(data)
	return cannedGenres[h.Sum32()%uint32(len(cannedGenres))]
}
