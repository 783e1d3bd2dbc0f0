package patentid_test

import (
	"fmt"

	"github.com/tsawler/patentid"
)

const exchangeDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ex:exchange-document xmlns:ex="http://www.epo.org/exchange">
  <ex:bibliographic-data>
    <ex:publication-reference>
      <ex:document-id document-id-type="original" format="original">
        <ex:doc-number>US2019123456</ex:doc-number>
      </ex:document-id>
      <ex:document-id document-id-type="docdb" load-source="docdb">
        <ex:doc-number>2019123456</ex:doc-number>
      </ex:document-id>
      <ex:document-id format="epodoc">
        <ex:doc-number>US20190123456</ex:doc-number>
      </ex:document-id>
    </ex:publication-reference>
  </ex:bibliographic-data>
</ex:exchange-document>`

func ExampleFromBlobs() {
	numbers, _, err := patentid.FromBlobs(patentid.Blob{Name: "doc.xml", Text: exchangeDoc}).DocNumbers()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, n := range numbers {
		fmt.Println(n)
	}
	// Output:
	// 2019123456
	// US2019123456
	// US20190123456
}

func ExampleExtractor_Identifiers() {
	ids, _, err := patentid.FromBlobs(patentid.Blob{Name: "doc.xml", Text: exchangeDoc}).Identifiers()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, id := range ids {
		fmt.Printf("%-14s %s\n", id.Number, id.Bucket)
	}
	// Output:
	// 2019123456     epo
	// US2019123456   patent-office
	// US20190123456  other
}
