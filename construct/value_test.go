package construct

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalkTokensPaths(t *testing.T) {
	tree := NewTree()
	net, err := tree.AddResource("aws_subnet", "net")
	if err != nil {
		t.Fatal(err)
	}

	v := NewObject().
		Set("subnet", net.Output("id")).
		Set("tags", List{
			Concat{Str("prefix-"), net.Output("arn")},
			Str("plain"),
		}).
		Set("count", Int(2))

	var got []string
	err = WalkTokens("host", v, func(path string, tok *Token) error {
		got = append(got, path+"="+tok.String())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"host.subnet=net.id",
		"host.tags[0]=net.arn",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong token paths\n%s", diff)
	}
}

func TestObjectOrder(t *testing.T) {
	obj := NewObject().
		Set("zebra", Str("z")).
		Set("apple", Str("a")).
		Set("mango", Str("m"))

	// Overwriting must not move the key.
	obj.Set("zebra", Str("z2"))

	want := []string{"zebra", "apple", "mango"}
	if diff := cmp.Diff(want, obj.Keys()); diff != "" {
		t.Errorf("wrong key order\n%s", diff)
	}
	if got := obj.Get("zebra").(Literal).Val.AsString(); got != "z2" {
		t.Errorf("overwrite did not stick, got %q", got)
	}
}
