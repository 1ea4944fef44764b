package tree

import "github.com/dhamidi/packrat/token"

// Chain is the doubly linked list of terminals built from the token
// stream before parsing starts.  Its topology never changes.
type Chain struct {
	head *Terminal
	end  *Terminal
	len  int
}

// BuildChain pulls every token from src, wraps each in a Terminal
// registered in u and links them in arrival order.  The chain always
// ends in a sentinel that is not part of the universe.
func BuildChain(src token.Source, u *Universe) *Chain {
	c := &Chain{}
	var last *Terminal
	for {
		tok, ok := src.Next()
		if !ok {
			break
		}
		t := &Terminal{Token: tok, Index: c.len, prev: last}
		u.Add(t)
		if last == nil {
			c.head = t
		} else {
			last.next = t
		}
		last = t
		c.len++
	}

	c.end = &Terminal{
		Token: token.Token{Terminal: token.Invalid, Kind: "EOF"},
		Index: c.len,
		prev:  last,
		end:   true,
	}
	if last != nil {
		c.end.Token.Position = last.Token.End()
		last.next = c.end
	} else {
		c.head = c.end
	}
	return c
}

// Head returns the first terminal, or the end sentinel when the chain
// is empty.
func (c *Chain) Head() *Terminal { return c.head }

// End returns the end-of-chain sentinel.
func (c *Chain) End() *Terminal { return c.end }

// Len returns the number of tokens in the chain.
func (c *Chain) Len() int { return c.len }

// Terminals returns the chain as a slice, without the sentinel.
func (c *Chain) Terminals() []*Terminal {
	out := make([]*Terminal, 0, c.len)
	for t := c.head; !t.IsEnd(); t = t.Next() {
		out = append(out, t)
	}
	return out
}
