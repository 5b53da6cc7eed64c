package main

import (
	"regexp"
	"testing"
)

func TestQueryAccount(t *testing.T) {
	node := newFakeNode(t)
	e := newExecutor(t)

	t.Run("missing address", func(t *testing.T) {
		e.RunWithError(t, "phantasma-go", "query", "account", "-r", node.URL())
	})
	t.Run("invalid address", func(t *testing.T) {
		e.RunWithError(t, "phantasma-go", "query", "account", "-r", node.URL(), "Pnotanaddress")
	})

	e.Run(t, "phantasma-go", "query", "account", "-r", node.URL(), testAddress)
	e.checkNextLine(t, `^Address:\s+`+regexp.QuoteMeta(testAddress)+`$`)
	e.checkNextLine(t, `^Name:\s+alice$`)
	e.checkNextLine(t, `^SOUL:\s+1\.5 \(main\)$`)
	e.checkNextLine(t, `^CROWN:\s+2 \(main\)$`)
	e.checkNextLine(t, `IDs: 77, 78$`)
	e.checkEOF(t)
}

func TestQueryHeight(t *testing.T) {
	node := newFakeNode(t)
	e := newExecutor(t)
	e.Run(t, "phantasma-go", "query", "height", "--chain", "main", "-r", node.URL())
	e.checkNextLine(t, "^42$")
	e.checkEOF(t)
}

func TestQueryToken(t *testing.T) {
	node := newFakeNode(t)
	e := newExecutor(t)

	e.RunWithError(t, "phantasma-go", "query", "token", "-r", node.URL())
	e.RunWithError(t, "phantasma-go", "query", "token", "-r", node.URL(), "NOPE")

	e.Run(t, "phantasma-go", "query", "token", "-r", node.URL(), "soul")
	e.checkNextLine(t, `^Symbol:\s+SOUL$`)
	e.checkNextLine(t, `^Name:\s+Phantasma Stake$`)
	e.checkNextLine(t, `^Decimals:\s+8$`)
	e.checkNextLine(t, `^Supply:\s+123$`)
	e.checkNextLine(t, `^MaxSupply:\s+0$`)
	e.checkNextLine(t, `^Flags:\s+Transferable, Fungible$`)
	e.checkEOF(t)
}

func TestQueryTx(t *testing.T) {
	node := newFakeNode(t)
	e := newExecutor(t)

	t.Run("missing hash", func(t *testing.T) {
		e.RunWithError(t, "phantasma-go", "query", "tx", "-r", node.URL())
	})
	t.Run("invalid hash", func(t *testing.T) {
		e.RunWithError(t, "phantasma-go", "query", "tx", "-r", node.URL(), "qwerty")
	})

	t.Run("short", func(t *testing.T) {
		e.Run(t, "phantasma-go", "query", "tx", "-r", node.URL(), testTxHash)
		e.checkNextLine(t, `^Hash:\s+`+testTxHash+`$`)
		e.checkNextLine(t, `^BlockHash:\s+AB$`)
		e.checkNextLine(t, `^BlockHeight:\s+41$`)
		e.checkNextLine(t, `^Success:\s+true$`)
		e.checkEOF(t)
	})

	t.Run("verbose", func(t *testing.T) {
		e.Run(t, "phantasma-go", "query", "tx", "-v", "-r", node.URL(), testTxHash)
		e.checkNextLine(t, `^Hash:\s+`+testTxHash+`$`)
		e.checkNextLine(t, `^BlockHash:`)
		e.checkNextLine(t, `^BlockHeight:`)
		e.checkNextLine(t, `^Success:\s+true$`)
		e.checkNextLine(t, `^State:\s+Halt$`)
		e.checkNextLine(t, `^Expiration:\s+0$`)
		e.checkNextLine(t, `^Script:\s+0D00$`)
		e.checkNextLine(t, `^Event:\s+TokenReceive `+regexp.QuoteMeta(testAddress)+` stake$`)
		e.checkEOF(t)
	})
}

func TestQueryNexus(t *testing.T) {
	node := newFakeNode(t)
	e := newExecutor(t)
	e.Run(t, "phantasma-go", "query", "nexus", "-r", node.URL())
	e.checkNextLine(t, `^Name:\s+simnet$`)
	e.checkNextLine(t, `^Protocol:\s+16$`)
	e.checkNextLine(t, `^Chain:\s+main 42$`)
	e.checkEOF(t)
}

func TestQueryBadEndpoint(t *testing.T) {
	e := newExecutor(t)
	e.RunWithError(t, "phantasma-go", "query", "height", "-r", "ws://127.0.0.1:1/rpc")
}
