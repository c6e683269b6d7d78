package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mbta-delay-pipeline/textutil"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: textstats \"some text\"\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	text := strings.Join(flag.Args(), " ")

	fmt.Printf("normalized:  %s\n", textutil.Normalize(text))
	fmt.Printf("words:       %d\n", textutil.WordCount(text))
	fmt.Printf("characters:  %d\n", textutil.CharCount(text))
	fmt.Printf("palindrome:  %v\n", textutil.IsPalindrome(text))
	if word, ok := textutil.MostCommonWord(text); ok {
		fmt.Printf("most common: %s\n", word)
	} else {
		log.Printf("no words found")
	}
}
