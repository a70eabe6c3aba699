package phonetics

// DefaultTable maps each Latin letter to the katakana openings that
// conventionally transliterate English words starting with that letter.
// Logic-as-data: replace or extend the table without touching the filter.
func DefaultTable() map[rune][]string {
	return map[rune][]string{
		'a': {"ア", "エー", "エイ"},
		'b': {"バ", "ビ", "ブ", "ベ", "ボ"},
		'c': {"カ", "キ", "ク", "ケ", "コ", "サ", "シ", "セ", "ソ", "チ"},
		'd': {"ダ", "ディ", "デュ", "デ", "ド"},
		'e': {"エ", "イ"},
		'f': {"ファ", "フィ", "フェ", "フォ", "フ"},
		'g': {"ガ", "ギ", "グ", "ゲ", "ゴ", "ジャ", "ジェ", "ジョ", "ジ"},
		'h': {"ハ", "ヒ", "フ", "ヘ", "ホ"},
		'i': {"イ", "アイ"},
		'j': {"ジャ", "ジュ", "ジェ", "ジョ", "ジ"},
		'k': {"カ", "キ", "ク", "ケ", "コ", "ナ"},
		'l': {"ラ", "リ", "ル", "レ", "ロ"},
		'm': {"マ", "ミ", "ム", "メ", "モ"},
		'n': {"ナ", "ニ", "ヌ", "ネ", "ノ"},
		'o': {"オ", "ア"},
		'p': {"パ", "ピ", "プ", "ペ", "ポ", "サ", "フ"},
		'q': {"ク", "キュ"},
		'r': {"ラ", "リ", "ル", "レ", "ロ"},
		's': {"サ", "シ", "ス", "セ", "ソ", "シャ", "シュ", "ショ"},
		't': {"タ", "ティ", "テュ", "チ", "ツ", "テ", "ト"},
		'u': {"ウ", "ユ", "ア"},
		'v': {"ヴ", "バ", "ビ", "ブ", "ベ", "ボ"},
		'w': {"ワ", "ウィ", "ウェ", "ウォ", "ウ", "ホ", "ラ", "リ", "ル", "レ", "ロ"},
		'x': {"キ", "ザ", "ゼ", "エク", "エッ"},
		'y': {"ヤ", "ユ", "イ", "ヨ"},
		'z': {"ザ", "ジ", "ズ", "ゼ", "ゾ"},
	}
}
