package att

import (
	"github.com/rigado/bthost"
)

// DefaultMTU is the LE ATT_MTU before any exchange [Vol 3, Part G, 5.2.1].
const DefaultMTU = 23

// Sender transmits a PDU on an L2CAP channel of a connection.
type Sender interface {
	Send(handle, cid uint16, pdu []byte) error
}

// Server answers attribute requests arriving on the attribute channel.
type Server struct {
	db               Database
	mtu              int
	replyUnsupported bool
	tx               Sender
	log              bthost.Logger
}

// Option configures a Server.
type Option func(*Server)

// OptDatabase replaces the default StaticDatabase.
func OptDatabase(db Database) Option {
	return func(s *Server) { s.db = db }
}

// OptMTU sets the largest response the server builds. Values below
// DefaultMTU are ignored.
func OptMTU(n int) Option {
	return func(s *Server) {
		if n >= DefaultMTU {
			s.mtu = n
		}
	}
}

// OptReplyUnsupported answers unknown requests with Request Not Supported
// instead of ignoring them.
func OptReplyUnsupported() Option {
	return func(s *Server) { s.replyUnsupported = true }
}

// NewServer returns a server replying through tx.
func NewServer(tx Sender, opts ...Option) *Server {
	s := &Server{
		db:  StaticDatabase{},
		mtu: DefaultMTU,
		tx:  tx,
		log: bthost.PkgLogger("att"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// HandleATT serves one request PDU received on cid of connection handle.
// It has the signature of an l2cap.Handler.
func (s *Server) HandleATT(handle, cid uint16, pdu []byte) {
	rsp := s.Handle(pdu)
	if rsp == nil {
		return
	}
	if err := s.tx.Send(handle, cid, rsp); err != nil {
		s.log.Errorf("send %s to handle 0x%04X: %v", OpName(rsp[0]), handle, err)
	}
}

// Handle returns the response to req, or nil when nothing is to be sent.
func (s *Server) Handle(req []byte) []byte {
	if len(req) == 0 {
		s.log.Warn("empty att pdu")
		return nil
	}
	op := req[0]
	s.log.Infof("recv %s (0x%02X): [% X]", OpName(op), op, req)

	switch op {
	case ReadByGroupTypeRequestCode:
		return s.handleReadByGroupRequest(ReadByGroupTypeRequest(req))
	}

	s.log.Errorf("%s (0x%02X) not supported", OpName(op), op)
	if s.replyUnsupported && isRequest(op) {
		return NewErrorResponse(op, 0x0000, ErrRequestNotSupp)
	}
	return nil
}

// handle Read By Group Type request. [Vol 3, Part F, 3.4.4.9 & 3.4.4.10]
func (s *Server) handleReadByGroupRequest(r ReadByGroupTypeRequest) []byte {
	if len(r) != readByGroupTypeRequestLen {
		return NewErrorResponse(r.AttributeOpcode(), 0x0000, ErrInvalidPDU)
	}
	s.log.Infof("read by group type 0x%04X-0x%04X type 0x%04X", r.StartingHandle(), r.EndingHandle(), r.AttributeGroupType())

	gg, err := s.db.ReadByGroupType(r.StartingHandle(), r.EndingHandle(), r.AttributeGroupType())
	if err != nil {
		s.log.Infof("read by group type: %v", err)
		return NewErrorResponse(r.AttributeOpcode(), r.StartingHandle(), errorCodeFor(err))
	}

	rsp := make(ReadByGroupTypeResponse, s.mtu)
	rsp[0] = ReadByGroupTypeResponseCode
	n := 2

	dlen := 0
	for _, g := range gg {
		if dlen == 0 {
			dlen = 4 + len(g.Value)
			if dlen > 255 {
				dlen = 255
			}
			if dlen > s.mtu-2 {
				dlen = s.mtu - 2
			}
			rsp[1] = uint8(dlen)
		} else if 4+len(g.Value) != dlen {
			break
		}

		if n+dlen > len(rsp) {
			break
		}
		putGroup(rsp[n:], g, dlen)
		n += dlen
	}
	if dlen == 0 {
		return NewErrorResponse(r.AttributeOpcode(), r.StartingHandle(), ErrAttributeNotFound)
	}
	return rsp[:n]
}

// isRequest reports whether op expects a reply. Known requests carry even
// opcodes; unknown opcodes count unless the command flag (bit 6) is set.
func isRequest(op byte) bool {
	if _, ok := opNames[op]; ok {
		return op != ErrorResponseCode && op%2 == 0
	}
	return op&0x40 == 0
}
