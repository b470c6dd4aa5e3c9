package article

import (
	"reflect"
	"testing"
)

func blk(kind Kind, text string, order int) Block {
	return Block{Kind: kind, Text: text, Page: 3, Column: order % 3, Order: order}
}

func TestMergeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []Block
		want []Block
	}{
		{
			name: "wrapped intro",
			in: []Block{
				blk(KindIntro, "Een nieuwe brug ", 0),
				blk(KindIntro, " over de Maas", 1),
				blk(KindParagraph, "Tekst.", 2),
			},
			want: []Block{
				blk(KindIntro, "Een nieuwe brug over de Maas", 0),
				blk(KindParagraph, "Tekst.", 2),
			},
		},
		{
			name: "hyphenated sub-heading",
			in: []Block{
				blk(KindParagraph, "Tekst.", 0),
				blk(KindSubheading, "Staal-", 1),
				blk(KindSubheading, "constructie", 2),
			},
			want: []Block{
				blk(KindParagraph, "Tekst.", 0),
				blk(KindSubheading, "Staalconstructie", 1),
			},
		},
		{
			name: "hyphen before digit keeps hyphen",
			in: []Block{
				blk(KindSubheading, "Fase-", 0),
				blk(KindSubheading, "2", 1),
			},
			want: []Block{blk(KindSubheading, "Fase- 2", 0)},
		},
		{
			name: "blank fragments skipped",
			in: []Block{
				blk(KindSubheading, "Kop", 0),
				blk(KindSubheading, "  ", 1),
				blk(KindSubheading, "deel", 2),
			},
			want: []Block{blk(KindSubheading, "Kop deel", 0)},
		},
		{
			name: "different header kinds stay apart",
			in: []Block{
				blk(KindIntro, "Intro", 0),
				blk(KindSubheading, "Kop", 1),
			},
			want: []Block{
				blk(KindIntro, "Intro", 0),
				blk(KindSubheading, "Kop", 1),
			},
		},
		{
			name: "paragraphs untouched",
			in: []Block{
				blk(KindParagraph, "een ", 0),
				blk(KindParagraph, "twee", 1),
			},
			want: []Block{
				blk(KindParagraph, "een ", 0),
				blk(KindParagraph, "twee", 1),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeHeaders(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeHeaders() =\n%+v\nwant\n%+v", got, tt.want)
			}
			if again := MergeHeaders(got); !reflect.DeepEqual(again, got) {
				t.Errorf("not a fixed point:\n%+v\n%+v", got, again)
			}
		})
	}
}

func TestRepairHyphenation(t *testing.T) {
	tests := []struct {
		name string
		in   []Block
		want []Block
	}{
		{
			name: "broken word across blocks",
			in: []Block{
				blk(KindParagraph, "Dit woord is afgebro-", 0),
				blk(KindParagraph, "ken verder.", 1),
			},
			want: []Block{blk(KindParagraph, "Dit woord is afgebroken verder.", 0)},
		},
		{
			name: "chain of breaks",
			in: []Block{
				blk(KindParagraph, "een staal-", 0),
				blk(KindParagraph, "con-", 1),
				blk(KindParagraph, "structie staat.", 2),
			},
			want: []Block{blk(KindParagraph, "een staalconstructie staat.", 0)},
		},
		{
			name: "soft hyphen and spaces",
			in: []Block{
				blk(KindIntro, "Over brug\u00ad  ", 0),
				blk(KindIntro, "gen", 1),
			},
			want: []Block{blk(KindIntro, "Over bruggen", 0)},
		},
		{
			name: "en dash and leading punctuation",
			in: []Block{
				blk(KindParagraph, "het stads–", 0),
				blk(KindParagraph, "(kantoor) is klaar", 1),
			},
			want: []Block{blk(KindParagraph, "het stadskantoor) is klaar", 0)},
		},
		{
			name: "different kinds are not joined",
			in: []Block{
				blk(KindParagraph, "afgebro-", 0),
				blk(KindSubheading, "ken", 1),
			},
			want: []Block{
				blk(KindParagraph, "afgebro-", 0),
				blk(KindSubheading, "ken", 1),
			},
		},
		{
			name: "next block without letters",
			in: []Block{
				blk(KindParagraph, "pagina-", 0),
				blk(KindParagraph, "42", 1),
			},
			want: []Block{
				blk(KindParagraph, "pagina-", 0),
				blk(KindParagraph, "42", 1),
			},
		},
		{
			name: "hyphen not at end",
			in: []Block{
				blk(KindParagraph, "een half-open deur", 0),
				blk(KindParagraph, "en meer", 1),
			},
			want: []Block{
				blk(KindParagraph, "een half-open deur", 0),
				blk(KindParagraph, "en meer", 1),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairHyphenation(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RepairHyphenation() =\n%+v\nwant\n%+v", got, tt.want)
			}
			if again := RepairHyphenation(got); !reflect.DeepEqual(again, got) {
				t.Errorf("not a fixed point:\n%+v\n%+v", got, again)
			}
		})
	}
}
